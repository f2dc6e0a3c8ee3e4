package articles

import "context"

// Filter narrows article listings. Zero-valued fields are ignored.
// Limit and Offset are applied after filtering; a zero Limit means the
// default page size is decided by the caller.
type Filter struct {
	Tag      string
	AuthorID int
	// FavoritedBy restricts to articles favorited by this user id.
	FavoritedBy int
	Limit       int
	Offset      int
}

// Repository is the article persistence contract. Lookups return a
// not-found apperror when no row matches, and constraint violations
// surface as conflict apperrors.
type Repository interface {
	Create(ctx context.Context, article *Article) (*Article, error)
	BySlug(ctx context.Context, slug string) (*Article, error)
	Update(ctx context.Context, article *Article) (*Article, error)
	// Delete removes the article with the given slug and returns the
	// deleted row.
	Delete(ctx context.Context, slug string) (*Article, error)
	// List returns matching articles, newest first.
	List(ctx context.Context, filter Filter) ([]*Article, error)
	// ByAuthors returns articles written by any of the given authors,
	// newest first. An empty id list yields an empty result.
	ByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*Article, error)
	// RecountFavorites recomputes the stored favorites count from the
	// favorites table and returns the fresh value.
	RecountFavorites(ctx context.Context, articleID int) (int, error)
	// DistinctTags returns every tag appearing on any article.
	DistinctTags(ctx context.Context) ([]string, error)
}
