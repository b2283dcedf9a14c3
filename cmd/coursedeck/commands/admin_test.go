package commands

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/coursedeck/coursedeck/internal/models"
)

func TestAdminViewRendersDefaultDashboardForStudent(t *testing.T) {
	var (
		mu        sync.Mutex
		adminHits int
	)

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/admin/") {
			mu.Lock()
			adminHits++
			mu.Unlock()
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/enrollments/my-courses":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []models.Enrollment{
					{
						ID:               "e-1",
						Course:           models.Course{ID: "c-1", Title: "Go Fundamentals"},
						EnrollmentStatus: models.EnrollmentActive,
						Progress:         models.Progress{Percentage: 40, CompletedLessons: 2, TotalLessons: 5},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "forbidden"})
		}
	}))
	defer gw.Close()

	stateDir := setTestEnv(t, gw.URL)
	seedSession(t, stateDir, mintToken(t, "Amina Yusuf", models.RoleStudent))

	cmd := NewAdminCmd()
	cmd.SetArgs([]string{"stats"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("admin stats returned error: %v", err)
	}

	// A student landing on the admin area gets their own dashboard, and the
	// privileged endpoints are never called.
	mu.Lock()
	if adminHits != 0 {
		t.Errorf("Expected no admin endpoint calls for a student, saw %d", adminHits)
	}
	mu.Unlock()

	if !strings.Contains(out.String(), "Your learning") {
		t.Errorf("Expected the student dashboard to render, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Go Fundamentals") {
		t.Errorf("Expected the enrollment listing, got:\n%s", out.String())
	}
}
