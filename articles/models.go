package articles

import (
	"time"

	"github.com/jameslahm/conduit-server-rest/auth"
)

// Article is a published post with its denormalized favorite count.
type Article struct {
	ID             int
	Slug           string
	Title          string
	Description    string
	Body           string
	TagList        []string
	FavoritesCount int
	AuthorID       int
	Author         *auth.User
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
