package comments

import (
	"context"

	"github.com/jameslahm/conduit-server-rest/articles"
)

// Service implements comment operations. Article lookups go through the
// article service so unknown slugs surface as not-found before any
// comment work happens.
type Service struct {
	repo     Repository
	articles *articles.Service
}

// NewService creates a new comment Service.
func NewService(repo Repository, articles *articles.Service) *Service {
	return &Service{repo: repo, articles: articles}
}

// Create posts a comment on the article with the given slug.
func (s *Service) Create(ctx context.Context, slug string, authorID int, body string) (*Comment, error) {
	article, err := s.articles.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &Comment{
		Body:      body,
		AuthorID:  authorID,
		ArticleID: article.ID,
	})
}

// List returns the comment thread of the article with the given slug,
// oldest first.
func (s *Service) List(ctx context.Context, slug string) ([]*Comment, error) {
	article, err := s.articles.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, article.ID)
}

// Delete removes a comment, requiring that it belongs to the article
// named by the slug.
func (s *Service) Delete(ctx context.Context, slug string, commentID int) (*Comment, error) {
	article, err := s.articles.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.repo.Delete(ctx, commentID, article.ID)
}
