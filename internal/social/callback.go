// Package social completes the provider login flow. The gateway does the
// whole OAuth dance server-side; the client's only job is to catch the final
// browser redirect, which carries either ?token= or ?error= in the query
// string, on a short-lived local HTTP server.
package social

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// CallbackPath is the client route the gateway redirects back to. It mirrors
// the web client's social-login-success page so the same gateway config
// serves both.
const CallbackPath = "/social-login-success"

// Result is the outcome of one completed redirect. Exactly one of Token and
// ErrorCode is set.
type Result struct {
	Token     string
	ErrorCode string
}

// CallbackServer listens for the gateway's redirect.
type CallbackServer struct {
	log      *zap.Logger
	listener net.Listener
	server   *http.Server
	results  chan Result
}

// Listen binds the callback server to addr (host:port, port may be 0).
func Listen(addr string, log *zap.Logger) (*CallbackServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("binding callback listener: %w", err)
	}

	s := &CallbackServer{
		log:      log,
		listener: listener,
		results:  make(chan Result, 1),
	}

	router := mux.NewRouter()
	router.HandleFunc(CallbackPath, s.handleCallback).Methods(http.MethodGet)

	s.server = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("callback server stopped", zap.Error(err))
		}
	}()

	return s, nil
}

// RedirectURI is the address the gateway should send the browser back to.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://%s%s", s.listener.Addr().String(), CallbackPath)
}

// Wait blocks until the gateway redirects the browser back, or ctx ends.
func (s *CallbackServer) Wait(ctx context.Context) (Result, error) {
	select {
	case res := <-s.results:
		return res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Close shuts the server down. Safe after Wait has returned.
func (s *CallbackServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch {
	case query.Get("token") != "":
		s.deliver(Result{Token: query.Get("token")})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><h1>Login Successful!</h1><p>You can return to the terminal.</p></body></html>")
	case query.Get("error") != "":
		s.deliver(Result{ErrorCode: query.Get("error")})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "<html><body><h1>Login Failed</h1><p>You can return to the terminal.</p></body></html>")
	default:
		http.Error(w, "missing token or error parameter", http.StatusBadRequest)
	}
}

// deliver hands the first result to Wait; later hits are ignored.
func (s *CallbackServer) deliver(res Result) {
	select {
	case s.results <- res:
	default:
		s.log.Debug("duplicate callback ignored")
	}
}
