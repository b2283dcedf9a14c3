package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/coursedeck/coursedeck/internal/models"
)

// staticTokens is a TokenSource with a fixed token.
type staticTokens struct {
	token string
}

func (s staticTokens) Token() (string, bool) {
	return s.token, s.token != ""
}

func newTestClient(t *testing.T, handler http.HandlerFunc, tokens TokenSource) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, tokens, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	return c
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env map[string]any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		t.Errorf("encoding envelope: %v", err)
	}
}

func TestBearerHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		tokens     TokenSource
		wantHeader string
	}{
		{name: "token attached", tokens: staticTokens{token: "tok-abc"}, wantHeader: "Bearer tok-abc"},
		{name: "anonymous sends no header", tokens: staticTokens{}},
		{name: "nil token source", tokens: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var gotHeader string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotHeader = r.Header.Get("Authorization")
				writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
			}, tt.tokens)

			if _, err := c.RandomCourses(context.Background()); err != nil {
				t.Fatalf("RandomCourses() returned error: %v", err)
			}
			if gotHeader != tt.wantHeader {
				t.Errorf("Expected Authorization header '%s', got '%s'", tt.wantHeader, gotHeader)
			}
		})
	}
}

func TestLoginReturnsTopLevelToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("Expected path /api/auth/login, got %s", r.URL.Path)
		}
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Email != "amina@example.com" {
			t.Errorf("Expected email in request body, got '%s'", req.Email)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "token": "tok-123"})
	}, nil)

	tok, err := c.Login(context.Background(), models.LoginRequest{Email: "amina@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login() returned error: %v", err)
	}
	if tok != "tok-123" {
		t.Errorf("Expected token 'tok-123', got '%s'", tok)
	}
}

func TestLoginWithoutToken(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true})
	}, nil)

	if _, err := c.Login(context.Background(), models.LoginRequest{Email: "a@b.co", Password: "secret1"}); err == nil {
		t.Error("Expected error when login response carries no token")
	}
}

func TestErrorTaxonomy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    map[string]any
		wantErr error
	}{
		{
			name:    "401 maps to ErrUnauthorized",
			status:  http.StatusUnauthorized,
			body:    map[string]any{"success": false, "message": "token expired"},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "403 maps to ErrUnauthorized",
			status:  http.StatusForbidden,
			body:    map[string]any{"success": false, "message": "admins only"},
			wantErr: ErrUnauthorized,
		},
		{
			name:    "404 maps to ErrNotFound",
			status:  http.StatusNotFound,
			body:    map[string]any{"success": false, "message": "no such course"},
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(t, w, tt.status, tt.body)
			}, staticTokens{token: "tok"})

			_, err := c.GetCourse(context.Background(), "c-1")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvelopeFailure(t *testing.T) {
	t.Parallel()

	// HTTP 200 but success=false still surfaces as a gateway error.
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": false, "message": "course is unpublished"})
	}, nil)

	_, err := c.GetCourse(context.Background(), "c-1")
	var gwErr *Error
	if !errors.As(err, &gwErr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if gwErr.Message != "course is unpublished" {
		t.Errorf("Expected envelope message, got '%s'", gwErr.Message)
	}
}

func TestDataDecoding(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": "c-1", "title": "Go for Backend Engineers", "price": 49.99},
				{"id": "c-2", "title": "Distributed Systems", "price": 89.00},
			},
			"pagination": map[string]any{"page": 1, "limit": 10, "totalPages": 4, "totalItems": 37},
		})
	}, nil)

	courses, pagination, err := c.ListCourses(context.Background(), models.CourseQuery{Search: "go"})
	if err != nil {
		t.Fatalf("ListCourses() returned error: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("Expected 2 courses, got %d", len(courses))
	}
	if courses[0].Title != "Go for Backend Engineers" {
		t.Errorf("Expected decoded title, got '%s'", courses[0].Title)
	}
	if pagination == nil || pagination.TotalItems != 37 {
		t.Errorf("Expected pagination with 37 items, got %+v", pagination)
	}
}

func TestCheckEnrollmentTopLevelFlag(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/enrollments/check/c-9" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "isEnrolled": true})
	}, staticTokens{token: "tok"})

	check, err := c.CheckEnrollment(context.Background(), "c-9")
	if err != nil {
		t.Fatalf("CheckEnrollment() returned error: %v", err)
	}
	if !check.IsEnrolled {
		t.Error("Expected IsEnrolled=true from top-level envelope flag")
	}
}

func TestTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := NewClient(srv.URL, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("NewClient() returned error: %v", err)
	}
	srv.Close()

	if _, err := c.RandomCourses(context.Background()); err == nil {
		t.Error("Expected transport error after server shutdown")
	}
}

func TestNewClientRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("not-a-url", nil, zap.NewNop()); err == nil {
		t.Error("Expected error for URL without scheme")
	}
}

func TestInvalidRateLimitDisablesPacing(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, map[string]any{"success": true, "data": []any{}})
	}, nil)
	WithRateLimit("bogus")(c)

	// Pacing is disabled, not fatal.
	if _, err := c.RandomCourses(context.Background()); err != nil {
		t.Fatalf("RandomCourses() returned error: %v", err)
	}
}
