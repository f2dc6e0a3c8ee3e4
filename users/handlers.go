package users

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
)

// Handlers wraps the user Service to provide HTTP handlers.
type Handlers struct {
	service *Service
	tokens  *auth.TokenService
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service, tokens *auth.TokenService) *Handlers {
	return &Handlers{service: service, tokens: tokens}
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// invalidField builds the field-error entry validation responses carry.
func invalidField(param string) apperror.FieldError {
	return apperror.FieldError{Msg: "Invalid value", Param: param, Location: "body"}
}

// authUser builds the authenticated-user payload, issuing a fresh credential.
func (h *Handlers) authUser(user *auth.User) (AuthUser, error) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		return AuthUser{}, apperror.NewInternalError("failed to issue credential", err)
	}
	return AuthUser{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}, nil
}

func (h *Handlers) writeUser(w http.ResponseWriter, r *http.Request, user *auth.User) {
	payload, err := h.authUser(user)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, UserResponse{User: payload})
}

// HandleRegister godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param body body users.RegisterRequest true "Registration details"
// @Success 200 {object} users.UserResponse
// @Failure 400 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse "Username or email already taken"
// @Router /users [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		var details []apperror.FieldError
		if req.User.Username == "" {
			details = append(details, invalidField("user.username"))
		}
		if !emailPattern.MatchString(req.User.Email) {
			details = append(details, invalidField("user.email"))
		}
		if len(req.User.Password) < 5 {
			details = append(details, invalidField("user.password"))
		}
		if len(details) > 0 {
			auth.WriteError(w, r, apperror.NewValidationError(http.StatusBadRequest, details))
			return
		}

		user, err := h.service.Register(r.Context(), req.User.Username, req.User.Email, req.User.Password)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeUser(w, r, user)
	}
}

// HandleLogin godoc
// @Summary Authenticate a user by email and password
// @Tags users
// @Accept json
// @Produce json
// @Param body body users.LoginRequest true "Login credentials"
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse "No user with that email"
// @Router /users/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		// Login validation failures respond 401, not 400.
		var details []apperror.FieldError
		if !emailPattern.MatchString(req.User.Email) {
			details = append(details, invalidField("user.email"))
		}
		if len(req.User.Password) < 5 {
			details = append(details, invalidField("user.password"))
		}
		if len(details) > 0 {
			auth.WriteError(w, r, apperror.NewValidationError(http.StatusUnauthorized, details))
			return
		}

		user, err := h.service.Authenticate(r.Context(), req.User.Email, req.User.Password)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeUser(w, r, user)
	}
}

// HandleCurrentUser godoc
// @Summary Get the currently authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Router /user [get]
func (h *Handlers) HandleCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}
		h.writeUser(w, r, identity)
	}
}

// HandleUpdateUser godoc
// @Summary Update the currently authenticated user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body users.UpdateUserRequest true "Fields to update"
// @Success 200 {object} users.UserResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 422 {object} apperror.ErrorResponse "Username or email already taken"
// @Router /user [put]
func (h *Handlers) HandleUpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := auth.IdentityFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError(nil))
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		updated, err := h.service.Update(r.Context(), identity.ID, &req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeUser(w, r, updated)
	}
}

// resolveProfileTarget loads the profiled user and the viewer, enforcing the
// API's historical check order: an unknown username is a 404 even when the
// request carries no credential; only then is an absent viewer a 401. The
// routes therefore run under Optional mode and enforce auth here.
func (h *Handlers) resolveProfileTarget(w http.ResponseWriter, r *http.Request) (*auth.User, *auth.User, bool) {
	target, err := h.service.UserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		auth.WriteError(w, r, err)
		return nil, nil, false
	}

	viewer, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		auth.WriteError(w, r, apperror.NewAuthError(nil))
		return nil, nil, false
	}
	return target, viewer, true
}

func (h *Handlers) writeProfile(w http.ResponseWriter, r *http.Request, target, viewer *auth.User) {
	profile, err := h.service.ProfileFor(r.Context(), target, viewer)
	if err != nil {
		auth.WriteError(w, r, err)
		return
	}
	auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: profile})
}

// HandleGetProfile godoc
// @Summary Get a user's public profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} users.ProfileResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /profiles/{username} [get]
func (h *Handlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, viewer, ok := h.resolveProfileTarget(w, r)
		if !ok {
			return
		}
		h.writeProfile(w, r, target, viewer)
	}
}

// HandleFollow godoc
// @Summary Follow a user
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} users.ProfileResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /profiles/{username}/follow [post]
func (h *Handlers) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, viewer, ok := h.resolveProfileTarget(w, r)
		if !ok {
			return
		}
		if err := h.service.Follow(r.Context(), viewer.ID, target.ID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeProfile(w, r, target, viewer)
	}
}

// HandleUnfollow godoc
// @Summary Unfollow a user
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} users.ProfileResponse
// @Failure 401 {object} apperror.ErrorResponse
// @Failure 404 {object} apperror.ErrorResponse
// @Router /profiles/{username}/follow [delete]
func (h *Handlers) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, viewer, ok := h.resolveProfileTarget(w, r)
		if !ok {
			return
		}
		if err := h.service.Unfollow(r.Context(), viewer.ID, target.ID); err != nil {
			auth.WriteError(w, r, err)
			return
		}
		h.writeProfile(w, r, target, viewer)
	}
}
