package comments

import (
	"time"

	"github.com/jameslahm/conduit-server-rest/users"
)

// CreateCommentRequest is the payload for posting a comment.
type CreateCommentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

type commentJSON struct {
	ID        int           `json:"id"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Body      string        `json:"body"`
	Author    users.Profile `json:"author"`
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment commentJSON `json:"comment"`
}

// CommentsResponse wraps an article's comment thread.
type CommentsResponse struct {
	Comments []commentJSON `json:"comments"`
}
