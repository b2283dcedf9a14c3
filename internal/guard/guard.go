// Package guard generalizes the contract every protected view implements:
// read the session, maybe redirect, issue the view's fetches, settle, render.
// Views declare what they need; the controller decides whether any network
// call is issued at all.
package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/gateway"
	"github.com/coursedeck/coursedeck/internal/models"
	"github.com/coursedeck/coursedeck/internal/session"
)

// State is the lifecycle of one controller instance.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateFailed
	StateRedirectPending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateRedirectPending:
		return "redirect-pending"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Route names a view the controller can send the user to instead of
// rendering. The command layer maps routes to views.
type Route string

const (
	RouteLogin   Route = "login"
	RouteHome    Route = "home"
	RouteCourses Route = "courses"
)

// SessionSource yields the current session. The session manager satisfies it.
type SessionSource interface {
	Current() session.Session
}

// Fetch is one network call a view depends on. Required fetches must all
// settle successfully before the view is Ready; optional ones are independent
// widgets whose failure degrades that widget only.
type Fetch struct {
	Name     string
	Required bool
	Run      func(ctx context.Context) error
}

// Options declares what a view demands before rendering.
type Options struct {
	// RequireAuth redirects anonymous sessions to LoginRoute before any
	// fetch is issued.
	RequireAuth bool
	// Roles, when non-empty, limits the privileged view to these roles.
	// A non-matching session gets DefaultRoute instead; the privileged
	// fetches are never issued. Advisory only: the gateway re-checks.
	Roles []models.Role
	// LoginRoute overrides the redirect target for anonymous sessions.
	LoginRoute Route
	// DefaultRoute is where role mismatches land.
	DefaultRoute Route
	// FallbackRoute is where a hard dependency failure (unresolvable id)
	// sends the user, e.g. course detail falling back to the listing.
	FallbackRoute Route
}

// Result is the settled outcome of one Run.
type Result struct {
	State    State
	Redirect Route
	Err      error
	// WidgetErrs holds optional-fetch failures by name; the view renders
	// without those widgets.
	WidgetErrs map[string]error
}

// Controller runs the guarded lifecycle for a single view instance.
// RedirectPending is terminal: once the controller decides to navigate away,
// further Runs return the same decision. Failed may retry.
type Controller struct {
	mu       sync.Mutex
	sessions SessionSource
	log      *zap.Logger
	state    State
	last     Result
}

// New builds a controller in Idle state.
func New(sessions SessionSource, log *zap.Logger) *Controller {
	return &Controller{sessions: sessions, log: log, state: StateIdle}
}

// State returns the controller's current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Loading reports whether fetches are in flight. Views must not offer
// interactions that depend on the data while this is true.
func (c *Controller) Loading() bool {
	return c.State() == StateLoading
}

// Run executes the guarded lifecycle: session check, redirects, then all
// fetches concurrently, settling before the result is produced.
func (c *Controller) Run(ctx context.Context, opts Options, fetches ...Fetch) Result {
	c.mu.Lock()
	if c.state == StateRedirectPending {
		// Navigation already decided; this instance is done.
		last := c.last
		c.mu.Unlock()
		return last
	}
	c.state = StateLoading
	c.mu.Unlock()

	sess := c.sessions.Current()

	if opts.RequireAuth && !sess.Authenticated() {
		route := opts.LoginRoute
		if route == "" {
			route = RouteLogin
		}
		c.log.Debug("anonymous session on protected view, redirecting",
			zap.String("route", string(route)))
		return c.settle(Result{State: StateRedirectPending, Redirect: route})
	}

	if len(opts.Roles) > 0 && !roleAllowed(sess.Role(), opts.Roles) {
		route := opts.DefaultRoute
		if route == "" {
			route = RouteHome
		}
		c.log.Debug("role not permitted for view, rendering default",
			zap.String("role", string(sess.Role())),
			zap.String("route", string(route)))
		return c.settle(Result{State: StateRedirectPending, Redirect: route})
	}

	requiredErrs := make([]error, 0)
	widgetErrs := make(map[string]error)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, f := range fetches {
		wg.Add(1)
		go func(f Fetch) {
			defer wg.Done()
			err := f.Run(ctx)
			if err == nil {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if f.Required {
				requiredErrs = append(requiredErrs, fmt.Errorf("%s: %w", f.Name, err))
			} else {
				widgetErrs[f.Name] = err
			}
		}(f)
	}
	wg.Wait()

	if len(requiredErrs) > 0 {
		err := errors.Join(requiredErrs...)

		// A rejected bearer token means "anonymous for this request". The
		// token store is left alone: only logout or a failed decode clears
		// it, since the token may still work for less strict endpoints.
		if errors.Is(err, gateway.ErrUnauthorized) {
			route := opts.LoginRoute
			if route == "" {
				route = RouteLogin
			}
			return c.settle(Result{State: StateRedirectPending, Redirect: route, Err: err})
		}

		if errors.Is(err, gateway.ErrNotFound) && opts.FallbackRoute != "" {
			return c.settle(Result{State: StateRedirectPending, Redirect: opts.FallbackRoute, Err: err})
		}

		return c.settle(Result{State: StateFailed, Err: err, WidgetErrs: widgetErrs})
	}

	return c.settle(Result{State: StateReady, WidgetErrs: widgetErrs})
}

func (c *Controller) settle(res Result) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = res.State
	c.last = res
	return res
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
