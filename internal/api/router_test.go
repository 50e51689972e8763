package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"tasktrack/internal/app/service"
	"tasktrack/internal/common/security"
	"tasktrack/internal/domain/repository"
	"testing"
	"time"
)

type apiTestEnv struct {
	router http.Handler
}

func newAPITestEnv() *apiTestEnv {
	userRepo := repository.NewMemoryUserRepository()
	taskRepo := repository.NewMemoryTaskRepository(userRepo)
	tokens := security.NewTokenService([]byte("test-signing-key"), 24*time.Hour)

	authService := service.NewAuthService(userRepo, tokens)
	taskService := service.NewTaskService(taskRepo)

	return &apiTestEnv{router: NewRouter(tokens, userRepo, authService, taskService)}
}

func (env *apiTestEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
		}
	}
	return rec, decoded
}

func (env *apiTestEnv) registerAndLogin(t *testing.T, username, password, role string) string {
	t.Helper()
	rec, _ := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username, "password": password, "role": role,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", username, rec.Code, rec.Body.String())
	}
	rec, body := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", username, rec.Code, rec.Body.String())
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s returned no token", username)
	}
	return token
}

func taskID(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	task, _ := body["task"].(map[string]interface{})
	id, _ := task["id"].(string)
	if id == "" {
		t.Fatalf("response carries no task id: %v", body)
	}
	return id
}

func TestHealth(t *testing.T) {
	env := newAPITestEnv()
	rec, _ := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	env := newAPITestEnv()
	env.registerAndLogin(t, "alice", "hunter22", "")

	rec, body := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice", "password": "other",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if success, _ := body["success"].(bool); success {
		t.Fatalf("error response must carry success=false")
	}
}

func TestLoginFailureUniform(t *testing.T) {
	env := newAPITestEnv()
	env.registerAndLogin(t, "alice", "hunter22", "")

	recWrongPass, bodyWrongPass := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice", "password": "nope",
	})
	recNoUser, bodyNoUser := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "nobody", "password": "hunter22",
	})
	if recWrongPass.Code != http.StatusUnauthorized || recNoUser.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", recWrongPass.Code, recNoUser.Code)
	}
	if bodyWrongPass["message"] != bodyNoUser["message"] {
		t.Fatalf("credential failures must be indistinguishable: %q vs %q",
			bodyWrongPass["message"], bodyNoUser["message"])
	}
}

func TestTasksRequireAuthentication(t *testing.T) {
	env := newAPITestEnv()

	rec, _ := env.do(t, http.MethodGet, "/api/v1/tasks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	env := newAPITestEnv()
	alice := env.registerAndLogin(t, "alice", "hunter22", "")
	bob := env.registerAndLogin(t, "bob", "hunter22", "")
	admin := env.registerAndLogin(t, "root", "hunter22", "admin")

	// Alice creates a task.
	rec, body := env.do(t, http.MethodPost, "/api/v1/tasks", alice, map[string]string{
		"title": "laundry", "description": "whites only",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	id := taskID(t, body)

	// Bob cannot see it.
	rec, _ = env.do(t, http.MethodGet, "/api/v1/tasks/"+id, bob, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", rec.Code)
	}

	// Admin can, with owner metadata attached.
	rec, body = env.do(t, http.MethodGet, "/api/v1/tasks/"+id, admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin get: expected 200, got %d", rec.Code)
	}
	task, _ := body["task"].(map[string]interface{})
	owner, _ := task["owner"].(map[string]interface{})
	if owner["username"] != "alice" {
		t.Fatalf("expected owner metadata for alice, got %v", task["owner"])
	}

	// Unknown ids are not found for everyone, owner checks never run.
	for _, token := range []string{alice, bob, admin} {
		rec, _ = env.do(t, http.MethodGet, "/api/v1/tasks/unknown-id", token, nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for unknown id, got %d", rec.Code)
		}
	}

	// Partial update flips the flag, nothing else.
	rec, body = env.do(t, http.MethodPatch, "/api/v1/tasks/"+id, alice, map[string]interface{}{
		"completed": true,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	task, _ = body["task"].(map[string]interface{})
	if task["completed"] != true || task["title"] != "laundry" || task["description"] != "whites only" {
		t.Fatalf("partial update went wrong: %v", task)
	}

	// Bob cannot delete it; Alice can.
	rec, _ = env.do(t, http.MethodDelete, "/api/v1/tasks/"+id, bob, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 deleting another user's task, got %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodDelete, "/api/v1/tasks/"+id, alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", rec.Code)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/v1/tasks/"+id, alice, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestListTasksPerRole(t *testing.T) {
	env := newAPITestEnv()
	alice := env.registerAndLogin(t, "alice", "hunter22", "")
	bob := env.registerAndLogin(t, "bob", "hunter22", "")
	admin := env.registerAndLogin(t, "root", "hunter22", "admin")

	for _, title := range []string{"a1", "a2"} {
		rec, _ := env.do(t, http.MethodPost, "/api/v1/tasks", alice, map[string]string{"title": title})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s failed: %d", title, rec.Code)
		}
	}
	rec, _ := env.do(t, http.MethodPost, "/api/v1/tasks", bob, map[string]string{"title": "b1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create b1 failed: %d", rec.Code)
	}

	rec, body := env.do(t, http.MethodGet, "/api/v1/tasks", alice, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	tasks, _ := body["tasks"].([]interface{})
	if len(tasks) != 2 {
		t.Fatalf("expected alice to see 2 tasks, got %d", len(tasks))
	}

	rec, body = env.do(t, http.MethodGet, "/api/v1/tasks", admin, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", rec.Code)
	}
	tasks, _ = body["tasks"].([]interface{})
	if len(tasks) != 3 {
		t.Fatalf("expected admin to see 3 tasks, got %d", len(tasks))
	}
	for _, raw := range tasks {
		task, _ := raw.(map[string]interface{})
		if task["owner"] == nil {
			t.Fatalf("admin listing must carry owner metadata: %v", task)
		}
	}
}
