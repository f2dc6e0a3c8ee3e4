package users

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
)

// Service provides user directory operations: registration, authentication
// by password, partial updates, the social graph, and profile rendering.
type Service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new user with a salted one-way password hash.
// A duplicate username or email surfaces as a ConflictError.
func (s *Service) Register(ctx context.Context, username, email, password string) (*auth.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	return s.repo.Create(ctx, &auth.User{
		Username:       username,
		Email:          email,
		HashedPassword: string(hashed),
	})
}

// Authenticate verifies an email/password pair. An unknown email is a
// NotFoundError; a wrong password is an AuthError. The distinction is part
// of the API contract (404 vs 401 on login).
func (s *Service) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	user, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, apperror.NewAuthError(err)
	}
	return user, nil
}

// UserByID loads a user by identifier. It also satisfies auth.UserSource,
// so the identity resolver can turn a verified credential into a user.
func (s *Service) UserByID(ctx context.Context, id int) (*auth.User, error) {
	return s.repo.ByID(ctx, id)
}

// UserByUsername loads a user by username.
func (s *Service) UserByUsername(ctx context.Context, username string) (*auth.User, error) {
	return s.repo.ByUsername(ctx, username)
}

// Update applies a partial update to a user record. A provided password is
// re-hashed; nil fields are left untouched.
func (s *Service) Update(ctx context.Context, userID int, req *UpdateUserRequest) (*auth.User, error) {
	user, err := s.repo.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.User.Email != nil {
		user.Email = *req.User.Email
	}
	if req.User.Username != nil {
		user.Username = *req.User.Username
	}
	if req.User.Bio != nil {
		user.Bio = *req.User.Bio
	}
	if req.User.Image != nil {
		user.Image = *req.User.Image
	}
	if req.User.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.User.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		user.HashedPassword = string(hashed)
	}

	return s.repo.Update(ctx, user)
}

// Follow appends the target to the follower's following set. It is not
// idempotent: repeated calls stack duplicate entries. That matches the
// behavior this system has always had; whether it is intentional is an open
// question, so it is reproduced rather than fixed here.
func (s *Service) Follow(ctx context.Context, followerID, targetID int) error {
	return s.repo.AddFollow(ctx, followerID, targetID)
}

// Unfollow removes one occurrence of the target from the follower's
// following set; it is a no-op when the target is not followed.
func (s *Service) Unfollow(ctx context.Context, followerID, targetID int) error {
	return s.repo.RemoveFollow(ctx, followerID, targetID)
}

// FollowingIDs returns the distinct identifiers the user follows.
func (s *Service) FollowingIDs(ctx context.Context, userID int) ([]int, error) {
	return s.repo.FollowingIDs(ctx, userID)
}

// Favorite adds an article to the user's favorite set. Unlike Follow it is
// idempotent: favoriting twice leaves a single membership.
func (s *Service) Favorite(ctx context.Context, userID, articleID int) error {
	return s.repo.AddFavorite(ctx, userID, articleID)
}

// Unfavorite removes an article from the user's favorite set if present.
func (s *Service) Unfavorite(ctx context.Context, userID, articleID int) error {
	return s.repo.RemoveFavorite(ctx, userID, articleID)
}

// IsFavorite reports whether the article is in the user's favorite set.
func (s *Service) IsFavorite(ctx context.Context, userID, articleID int) (bool, error) {
	return s.repo.IsFavorite(ctx, userID, articleID)
}

// FavoriteIDs returns the identifiers of the articles the user favorited.
func (s *Service) FavoriteIDs(ctx context.Context, userID int) ([]int, error) {
	return s.repo.FavoriteIDs(ctx, userID)
}

// ProfileFor renders the target's public profile relative to an optional
// viewer. With no viewer, following is always false — never an error.
func (s *Service) ProfileFor(ctx context.Context, target *auth.User, viewer *auth.User) (Profile, error) {
	profile := Profile{
		Username: target.Username,
		Bio:      target.Bio,
		Image:    target.Image,
	}
	if viewer == nil {
		return profile, nil
	}

	following, err := s.repo.IsFollowing(ctx, viewer.ID, target.ID)
	if err != nil {
		return Profile{}, err
	}
	profile.Following = following
	return profile, nil
}
