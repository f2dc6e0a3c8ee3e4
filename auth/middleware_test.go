package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jameslahm/conduit-server-rest/apperror"
)

// fakeUserSource serves a fixed set of users by id.
type fakeUserSource struct {
	users map[int]*User
}

func (f *fakeUserSource) UserByID(ctx context.Context, id int) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(nil)
	}
	return user, nil
}

// identityProbe records whether the request carried a resolved identity.
func identityProbe(gotIdentity *bool, gotUser **User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := IdentityFromContext(r.Context())
		*gotIdentity = ok
		*gotUser = user
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticator(t *testing.T) {
	tokens := newTestTokenService(time.Hour)
	source := &fakeUserSource{users: map[int]*User{
		7: {ID: 7, Username: "jake", Email: "jake@jake.jake"},
	}}

	valid, err := tokens.Issue(7)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	deleted, err := tokens.Issue(99)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name         string
		mode         Mode
		header       string
		wantStatus   int
		wantIdentity bool
	}{
		{"no header optional", Optional, "", http.StatusOK, false},
		{"no header required", Required, "", http.StatusUnauthorized, false},
		{"invalid token optional", Optional, "Bearer not.a.jwt", http.StatusOK, false},
		{"invalid token required", Required, "Bearer not.a.jwt", http.StatusUnauthorized, false},
		{"valid token optional", Optional, "Bearer " + valid, http.StatusOK, true},
		{"valid token required", Required, "Bearer " + valid, http.StatusOK, true},
		{"deleted user optional", Optional, "Bearer " + deleted, http.StatusOK, false},
		{"deleted user required", Required, "Bearer " + deleted, http.StatusNotFound, false},
		{"malformed header required", Required, "Token abc", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotIdentity bool
			var gotUser *User
			handler := Authenticator(tokens, source, tt.mode)(identityProbe(&gotIdentity, &gotUser))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotIdentity != tt.wantIdentity {
				t.Errorf("identity present = %v, want %v", gotIdentity, tt.wantIdentity)
			}
			if tt.wantIdentity && gotUser != nil && gotUser.ID != 7 {
				t.Errorf("identity id = %d, want 7", gotUser.ID)
			}
		})
	}
}

func TestBearerCredential(t *testing.T) {
	tests := []struct {
		header string
		want   string
		wantOK bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		got, ok := bearerCredential(req)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("bearerCredential(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.wantOK)
		}
	}
}
