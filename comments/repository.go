package comments

import "context"

// Repository is the comment persistence contract. Lookups return a
// not-found apperror when no row matches.
type Repository interface {
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	// List returns an article's comments in creation order, oldest first.
	List(ctx context.Context, articleID int) ([]*Comment, error)
	// Delete removes the comment only when both the comment id and the
	// article id match, and returns the deleted row.
	Delete(ctx context.Context, commentID, articleID int) (*Comment, error)
}
