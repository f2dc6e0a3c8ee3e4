package comments

import (
	"time"

	"github.com/jameslahm/conduit-server-rest/auth"
)

// Comment is a reader comment attached to an article.
type Comment struct {
	ID        int
	Body      string
	AuthorID  int
	ArticleID int
	Author    *auth.User
	CreatedAt time.Time
	UpdatedAt time.Time
}
