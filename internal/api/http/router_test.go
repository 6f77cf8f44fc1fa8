package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mentormatch-backend/internal/repository/docstore"
	"mentormatch-backend/internal/security"
	"mentormatch-backend/internal/service"
	"mentormatch-backend/internal/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	mem := store.NewMemoryStore()
	repos := docstore.NewStore(mem)
	tokens := security.NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	auditor := service.NewAuditor(nil)
	ledger := service.NewCapacityLedger(repos.SupervisorRepository)

	svcs := Services{
		Auth: service.NewAuthService(
			repos.StudentRepository,
			repos.SupervisorRepository,
			repos.AdminRepository,
			tokens,
		),
		Students:    service.NewStudentService(repos.StudentRepository),
		Supervisors: service.NewSupervisorService(mem, repos.SupervisorRepository, auditor),
		Applications: service.NewApplicationService(
			mem,
			repos.ApplicationRepository,
			repos.StudentRepository,
			repos.SupervisorRepository,
			repos.ProjectRepository,
			ledger,
			auditor,
			nil,
			repos.NotificationRepository,
		),
		Partnerships: service.NewPartnershipService(
			mem,
			repos.StudentRepository,
			repos.StudentPartnershipRequestRepository,
			auditor,
			nil,
			repos.NotificationRepository,
		),
		CoSupervision: service.NewSupervisorPartnershipService(
			mem,
			repos.SupervisorRepository,
			repos.ProjectRepository,
			repos.SupervisorPartnershipRequestRepository,
			auditor,
			nil,
			repos.NotificationRepository,
		),
		Projects:      service.NewProjectService(repos.ProjectRepository),
		Notifications: service.NewNotificationService(repos.NotificationRepository),
		Admin: service.NewAdminService(
			repos.StudentRepository,
			repos.SupervisorRepository,
			repos.ApplicationRepository,
			repos.ProjectRepository,
			nil,
		),
	}
	return NewRouter(svcs, tokens, []string{"*"})
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	}
	return rec.Code, env
}

func signupStudent(t *testing.T, h http.Handler, email string) (string, string) {
	t.Helper()
	status, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/students/signup", "", map[string]any{
		"email":    email,
		"password": "correct horse",
		"name":     "Student " + email,
	})
	require.Equal(t, http.StatusCreated, status)

	var data struct {
		Student struct {
			ID string `json:"id"`
		} `json:"student"`
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Student.ID, data.Tokens.AccessToken
}

func signupSupervisor(t *testing.T, h http.Handler, email string, maxCapacity int) (string, string) {
	t.Helper()
	status, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/supervisors/signup", "", map[string]any{
		"email":       email,
		"password":    "correct horse",
		"name":        "Supervisor " + email,
		"maxCapacity": maxCapacity,
	})
	require.Equal(t, http.StatusCreated, status)

	var data struct {
		Supervisor struct {
			ID string `json:"id"`
		} `json:"supervisor"`
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Supervisor.ID, data.Tokens.AccessToken
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestAuthMiddleware(t *testing.T) {
	h := newTestServer(t)

	t.Run("MissingToken", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodGet, "/api/v1/applications", "", nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.False(t, env.Success)
	})

	t.Run("GarbageToken", func(t *testing.T) {
		status, _ := doJSON(t, h, http.MethodGet, "/api/v1/applications", "garbage", nil)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("RefreshTokenRejectedOnAPIRoutes", func(t *testing.T) {
		_, _ = signupStudent(t, h, "alice@uni.edu")
		status, env := doJSON(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
			"email":    "alice@uni.edu",
			"password": "correct horse",
			"role":     "student",
		})
		require.Equal(t, http.StatusOK, status)
		var pair struct {
			RefreshToken string `json:"refreshToken"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &pair))

		code, _ := doJSON(t, h, http.MethodGet, "/api/v1/applications", pair.RefreshToken, nil)
		assert.Equal(t, http.StatusForbidden, code)
	})
}

func TestApplicationWorkflowOverHTTP(t *testing.T) {
	h := newTestServer(t)
	_, studentToken := signupStudent(t, h, "alice@uni.edu")
	supID, supToken := signupSupervisor(t, h, "smith@uni.edu", 3)

	var appID string

	t.Run("StudentSubmits", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodPost, "/api/v1/applications", studentToken, map[string]any{
			"supervisorId": supID,
			"title":        "Capstone Proposal",
			"description":  "A proposal",
		})
		require.Equal(t, http.StatusCreated, status)
		require.True(t, env.Success)

		var app struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &app))
		assert.Equal(t, "pending", app.Status)
		appID = app.ID
	})

	t.Run("SupervisorApproves", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodPut, "/api/v1/applications/"+appID+"/status", supToken, map[string]any{
			"status": "approved",
		})
		require.Equal(t, http.StatusOK, status)
		require.True(t, env.Success)
	})

	t.Run("CapacityVisibleThroughMeAlias", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodGet, "/api/v1/supervisors/me", supToken, nil)
		require.Equal(t, http.StatusOK, status)

		var sup struct {
			CurrentCapacity    int    `json:"currentCapacity"`
			AvailabilityStatus string `json:"availabilityStatus"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &sup))
		assert.Equal(t, 1, sup.CurrentCapacity)
	})

	t.Run("ProjectListedForStudent", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodGet, "/api/v1/projects", studentToken, nil)
		require.Equal(t, http.StatusOK, status)

		var projects []struct {
			Status string `json:"status"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &projects))
		require.Len(t, projects, 1)
		assert.Equal(t, "active", projects[0].Status)
	})
}

func TestErrorStatusMapping(t *testing.T) {
	h := newTestServer(t)
	_, studentToken := signupStudent(t, h, "alice@uni.edu")
	supID, _ := signupSupervisor(t, h, "smith@uni.edu", 3)

	t.Run("ValidationIs400", func(t *testing.T) {
		status, env := doJSON(t, h, http.MethodPost, "/api/v1/applications", studentToken, map[string]any{
			"supervisorId": supID,
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	})

	t.Run("NotFoundIs404", func(t *testing.T) {
		status, _ := doJSON(t, h, http.MethodGet, "/api/v1/applications/missing", studentToken, nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("ForbiddenIs403", func(t *testing.T) {
		code, env := doJSON(t, h, http.MethodPost, "/api/v1/applications", studentToken, map[string]any{
			"supervisorId": supID,
			"title":        "First",
		})
		require.Equal(t, http.StatusCreated, code)

		var app struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &app))

		// A student cannot decide application status.
		code, _ = doJSON(t, h, http.MethodPut, "/api/v1/applications/"+app.ID+"/status", studentToken, map[string]any{
			"status": "approved",
		})
		assert.Equal(t, http.StatusForbidden, code)

		// A second active application conflicts.
		code, _ = doJSON(t, h, http.MethodPost, "/api/v1/applications", studentToken, map[string]any{
			"supervisorId": supID,
			"title":        "Second",
		})
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("MalformedBodyIs400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
