// Package users owns user records: registration, authentication by
// password, profile rendering, and the social graph (follows and article
// favorites). This file defines the request and response payloads.
package users

// RegisterRequest is the body of POST /api/users.
type RegisterRequest struct {
	User struct {
		Username string `json:"username" example:"jake"`
		Email    string `json:"email" example:"jake@jake.jake"`
		Password string `json:"password" example:"jakejake"`
	} `json:"user"`
}

// LoginRequest is the body of POST /api/users/login.
type LoginRequest struct {
	User struct {
		Email    string `json:"email" example:"jake@jake.jake"`
		Password string `json:"password" example:"jakejake"`
	} `json:"user"`
}

// UpdateUserRequest is the body of PUT /api/user. Pointer fields allow
// partial updates: nil means "leave unchanged".
type UpdateUserRequest struct {
	User struct {
		Email    *string `json:"email,omitempty"`
		Username *string `json:"username,omitempty"`
		Password *string `json:"password,omitempty"`
		Bio      *string `json:"bio,omitempty"`
		Image    *string `json:"image,omitempty"`
	} `json:"user"`
}

// AuthUser is the authenticated-user payload, always carrying a fresh
// credential.
type AuthUser struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`
}

// UserResponse is the envelope for every user payload.
type UserResponse struct {
	User AuthUser `json:"user"`
}

// Profile is the public representation of a user relative to an optional
// viewer. Following is true only when a viewer is present and follows the
// profiled user; an absent viewer is never an error.
type Profile struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// ProfileResponse is the envelope for profile payloads.
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}
