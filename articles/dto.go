package articles

import (
	"time"

	"github.com/jameslahm/conduit-server-rest/users"
)

// CreateArticleRequest is the payload for creating an article.
type CreateArticleRequest struct {
	Article struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

// UpdateArticleRequest is the payload for updating an article. Absent
// fields are left untouched.
type UpdateArticleRequest struct {
	Article struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Body        *string  `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

type articleJSON struct {
	Slug           string        `json:"slug"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Body           string        `json:"body"`
	TagList        []string      `json:"tagList"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Favorited      bool          `json:"favorited"`
	FavoritesCount int           `json:"favoritesCount"`
	Author         users.Profile `json:"author"`
}

// ArticleResponse wraps a single article.
type ArticleResponse struct {
	Article articleJSON `json:"article"`
}

// ArticlesResponse wraps a page of articles. ArticlesCount reports the
// size of the returned page, not of the overall result set.
type ArticlesResponse struct {
	Articles      []articleJSON `json:"articles"`
	ArticlesCount int           `json:"articlesCount"`
}

// TagsResponse lists every distinct tag in use.
type TagsResponse struct {
	Tags []string `json:"tags"`
}
