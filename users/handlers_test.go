package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
	"github.com/jameslahm/conduit-server-rest/config"
)

func newTestHandlers(repo Repository) *Handlers {
	tokens := auth.NewTokenService(&config.AuthConfig{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
	})
	return NewHandlers(NewService(repo), tokens)
}

func decodeErrors(t *testing.T, body *httptest.ResponseRecorder) apperror.ErrorResponse {
	t.Helper()
	var resp apperror.ErrorResponse
	if err := json.NewDecoder(body.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	return resp
}

func TestHandleRegister(t *testing.T) {
	h := newTestHandlers(newFakeRepo())

	body := `{"user":{"username":"jake","email":"jake@jake.jake","password":"jakejake"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.User.Username != "jake" || resp.User.Email != "jake@jake.jake" {
		t.Errorf("user = %+v, want jake's registration echoed back", resp.User)
	}
	if resp.User.Token == "" {
		t.Error("response carries no credential")
	}
}

func TestHandleRegisterValidation(t *testing.T) {
	h := newTestHandlers(newFakeRepo())

	body := `{"user":{"username":"","email":"not-an-email","password":"abc"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRegister().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeErrors(t, rec)
	list, ok := resp.Errors.([]interface{})
	if !ok {
		t.Fatalf("errors is %T, want a field-error list", resp.Errors)
	}
	if len(list) != 3 {
		t.Errorf("field errors = %d, want 3 (username, email, password)", len(list))
	}
}

func TestHandleRegisterDuplicate(t *testing.T) {
	h := newTestHandlers(newFakeRepo())

	body := `{"user":{"username":"jake","email":"jake@jake.jake","password":"jakejake"}}`
	for i, want := range []int{http.StatusOK, http.StatusUnprocessableEntity} {
		req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(body))
		rec := httptest.NewRecorder()
		h.HandleRegister().ServeHTTP(rec, req)
		if rec.Code != want {
			t.Errorf("attempt %d status = %d, want %d", i+1, rec.Code, want)
		}
	}
}

func TestHandleLogin(t *testing.T) {
	repo := newFakeRepo()
	h := newTestHandlers(repo)

	register := `{"user":{"username":"jake","email":"jake@jake.jake","password":"jakejake"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(register))
	h.HandleRegister().ServeHTTP(httptest.NewRecorder(), req)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"ok", `{"user":{"email":"jake@jake.jake","password":"jakejake"}}`, http.StatusOK},
		{"wrong password", `{"user":{"email":"jake@jake.jake","password":"wrongpass"}}`, http.StatusUnauthorized},
		{"unknown email", `{"user":{"email":"nobody@jake.jake","password":"jakejake"}}`, http.StatusNotFound},
		{"invalid fields", `{"user":{"email":"not-an-email","password":"abc"}}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.HandleLogin().ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

// Profile routes check the target before the credential: an unknown
// username is a 404 even on an unauthenticated request, and only a known
// target with no viewer yields a 401.
func TestProfileCheckOrder(t *testing.T) {
	repo := newFakeRepo()
	h := newTestHandlers(repo)

	register := `{"user":{"username":"anah","email":"anah@anah.anah","password":"anahanah"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(register))
	h.HandleRegister().ServeHTTP(httptest.NewRecorder(), req)

	r := chi.NewRouter()
	r.Get("/api/profiles/{username}", h.HandleGetProfile())
	r.Post("/api/profiles/{username}/follow", h.HandleFollow())

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"unknown target wins over missing credential", http.MethodGet, "/api/profiles/ghost", http.StatusNotFound},
		{"known target without credential", http.MethodGet, "/api/profiles/anah", http.StatusUnauthorized},
		{"follow unknown target", http.MethodPost, "/api/profiles/ghost/follow", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestProfileWithViewer(t *testing.T) {
	repo := newFakeRepo()
	h := newTestHandlers(repo)
	svc := NewService(repo)

	viewer, _ := svc.Register(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "jake", "jake@jake.jake", "jakejake")
	target, _ := svc.Register(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "anah", "anah@anah.anah", "anahanah")

	r := chi.NewRouter()
	r.Post("/api/profiles/{username}/follow", h.HandleFollow())
	r.Delete("/api/profiles/{username}/follow", h.HandleUnfollow())

	follow := httptest.NewRequest(http.MethodPost, "/api/profiles/anah/follow", nil)
	follow = follow.WithContext(auth.NewContextWithIdentity(follow.Context(), viewer))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, follow)

	if rec.Code != http.StatusOK {
		t.Fatalf("follow status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var resp ProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Profile.Following {
		t.Error("follow response does not report following")
	}
	if resp.Profile.Username != target.Username {
		t.Errorf("profile username = %q, want %q", resp.Profile.Username, target.Username)
	}

	unfollow := httptest.NewRequest(http.MethodDelete, "/api/profiles/anah/follow", nil)
	unfollow = unfollow.WithContext(auth.NewContextWithIdentity(unfollow.Context(), viewer))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, unfollow)

	if rec.Code != http.StatusOK {
		t.Fatalf("unfollow status = %d, want 200", rec.Code)
	}
	resp = ProfileResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Profile.Following {
		t.Error("unfollow response still reports following")
	}
}
