// Package auth contains identity resolution: issuing and verifying signed
// credentials, and turning an incoming request into a resolved user.
// The User model lives here so that feature packages can share it without
// depending on each other.
package auth

import "time"

// User represents a user record as stored in the database and used by the
// application's business logic. The password hash is write-only: the json
// tag keeps it out of every response.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Bio            string    `json:"bio"`
	Image          string    `json:"image"`
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
