package users

import (
	"context"

	"github.com/jameslahm/conduit-server-rest/auth"
)

// Repository is the store contract the user service consumes. Implementations
// must report a missing record as a NotFound apperror and a unique-constraint
// violation as a Conflict apperror; everything else is a database error.
type Repository interface {
	Create(ctx context.Context, user *auth.User) (*auth.User, error)
	ByID(ctx context.Context, id int) (*auth.User, error)
	ByEmail(ctx context.Context, email string) (*auth.User, error)
	ByUsername(ctx context.Context, username string) (*auth.User, error)
	Update(ctx context.Context, user *auth.User) (*auth.User, error)

	// AddFollow appends a follow edge without checking for duplicates;
	// RemoveFollow deletes at most one edge.
	AddFollow(ctx context.Context, followerID, followedID int) error
	RemoveFollow(ctx context.Context, followerID, followedID int) error
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
	FollowingIDs(ctx context.Context, userID int) ([]int, error)

	// AddFavorite is idempotent; RemoveFavorite is a no-op when absent.
	AddFavorite(ctx context.Context, userID, articleID int) error
	RemoveFavorite(ctx context.Context, userID, articleID int) error
	IsFavorite(ctx context.Context, userID, articleID int) (bool, error)
	FavoriteIDs(ctx context.Context, userID int) ([]int, error)
}
