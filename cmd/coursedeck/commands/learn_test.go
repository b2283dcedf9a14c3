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

func TestLearnResolvesEnrollmentFromMyCourses(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)

	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/courses/c-1":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": models.Course{
					ID:    "c-1",
					Title: "Go Fundamentals",
					Sections: []models.Section{
						{ID: "s-1", Title: "Getting Started", Lessons: []models.Lesson{
							{ID: "l-1", Title: "Installing the toolchain", Duration: "08:30"},
							{ID: "l-2", Title: "Your first program", Duration: "12:00"},
						}},
					},
				},
			})
		case "/api/enrollments/my-courses":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []models.Enrollment{
					{
						ID:               "e-9",
						Course:           models.Course{ID: "c-1", Title: "Go Fundamentals"},
						EnrollmentStatus: models.EnrollmentActive,
						Progress:         models.Progress{Percentage: 50, CompletedLessons: 1, TotalLessons: 2},
					},
				},
			})
		case "/api/enrollments/progress/e-9":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": models.DetailedProgress{
					EnrollmentID: "e-9",
					Percentage:   50,
					Lessons: []models.LessonProgress{
						{LessonID: "l-1", Completed: true},
					},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "not found"})
		}
	}))
	defer gw.Close()

	stateDir := setTestEnv(t, gw.URL)
	seedSession(t, stateDir, mintToken(t, "Amina Yusuf", models.RoleStudent))

	cmd := NewLearnCmd()
	cmd.SetArgs([]string{"c-1"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("learn returned error: %v", err)
	}

	// The enrollment id comes from the my-courses listing, so the progress
	// fetch must name it; an empty id would produce /api/enrollments/progress/.
	mu.Lock()
	defer mu.Unlock()
	sawProgress := false
	for _, p := range paths {
		if strings.HasPrefix(p, "/api/enrollments/progress") {
			sawProgress = true
			if p != "/api/enrollments/progress/e-9" {
				t.Errorf("Expected progress fetch for e-9, got path %q", p)
			}
		}
	}
	if !sawProgress {
		t.Error("Expected a progress fetch, saw none")
	}

	if !strings.Contains(out.String(), "Go Fundamentals") {
		t.Errorf("Expected course title in output, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "[x]") {
		t.Errorf("Expected completed lesson mark in output, got:\n%s", out.String())
	}
}

func TestLearnNotEnrolled(t *testing.T) {
	gw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/courses/c-2":
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data":    models.Course{ID: "c-2", Title: "Advanced Tracing"},
			})
		case "/api/enrollments/my-courses":
			// Enrolled elsewhere, but not in c-2.
			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"data": []models.Enrollment{
					{ID: "e-1", Course: models.Course{ID: "c-1"}, EnrollmentStatus: models.EnrollmentActive},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "not found"})
		}
	}))
	defer gw.Close()

	stateDir := setTestEnv(t, gw.URL)
	seedSession(t, stateDir, mintToken(t, "Amina Yusuf", models.RoleStudent))

	cmd := NewLearnCmd()
	cmd.SetArgs([]string{"c-2"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("learn returned error: %v", err)
	}
	if !strings.Contains(out.String(), "not enrolled") {
		t.Errorf("Expected not-enrolled message, got:\n%s", out.String())
	}
}
