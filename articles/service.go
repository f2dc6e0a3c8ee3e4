package articles

import (
	"context"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/users"
)

// DefaultPageSize bounds listings when the client sends no limit.
const DefaultPageSize = 20

// slugAttempts bounds retries when a generated slug collides.
const slugAttempts = 3

// Service implements article operations over the repository, delegating
// user lookups and follow/favorite bookkeeping to the user service.
type Service struct {
	repo  Repository
	users *users.Service
}

// NewService creates a new article Service.
func NewService(repo Repository, users *users.Service) *Service {
	return &Service{repo: repo, users: users}
}

// Create stores a new article. Slug collisions are retried with a fresh
// random suffix a bounded number of times before the conflict surfaces.
func (s *Service) Create(ctx context.Context, authorID int, req *CreateArticleRequest) (*Article, error) {
	article := &Article{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
		AuthorID:    authorID,
	}

	var err error
	for attempt := 0; attempt < slugAttempts; attempt++ {
		article.Slug = NewSlug(article.Title)
		var created *Article
		created, err = s.repo.Create(ctx, article)
		if err == nil {
			return created, nil
		}
		if !apperror.IsConflict(err) {
			return nil, err
		}
	}
	return nil, err
}

// Get looks up an article by slug.
func (s *Service) Get(ctx context.Context, slug string) (*Article, error) {
	return s.repo.BySlug(ctx, slug)
}

// Update applies the provided fields to the article with the given slug.
// Changing the title regenerates the slug by the creation rule.
func (s *Service) Update(ctx context.Context, slug string, req *UpdateArticleRequest) (*Article, error) {
	article, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if req.Article.Title != nil && *req.Article.Title != article.Title {
		article.Title = *req.Article.Title
		article.Slug = NewSlug(article.Title)
	}
	if req.Article.Description != nil {
		article.Description = *req.Article.Description
	}
	if req.Article.Body != nil {
		article.Body = *req.Article.Body
	}
	if req.Article.TagList != nil {
		article.TagList = req.Article.TagList
	}

	return s.repo.Update(ctx, article)
}

// Delete removes the article with the given slug and returns it.
func (s *Service) Delete(ctx context.Context, slug string) (*Article, error) {
	return s.repo.Delete(ctx, slug)
}

// List returns a page of articles matching the given filters, newest
// first. Author or favorited usernames that resolve to no user yield an
// empty page rather than an error.
func (s *Service) List(ctx context.Context, tag, author, favorited string, limit, offset int) ([]*Article, error) {
	filter := Filter{Tag: tag, Limit: limit, Offset: offset}

	if author != "" {
		user, err := s.users.UserByUsername(ctx, author)
		if err != nil {
			if apperror.IsNotFound(err) {
				return []*Article{}, nil
			}
			return nil, err
		}
		filter.AuthorID = user.ID
	}
	if favorited != "" {
		user, err := s.users.UserByUsername(ctx, favorited)
		if err != nil {
			if apperror.IsNotFound(err) {
				return []*Article{}, nil
			}
			return nil, err
		}
		filter.FavoritedBy = user.ID
	}

	return s.repo.List(ctx, filter)
}

// Feed returns a page of articles authored by users the viewer follows,
// newest first. Duplicate follow rows do not duplicate articles.
func (s *Service) Feed(ctx context.Context, viewerID, limit, offset int) ([]*Article, error) {
	authorIDs, err := s.users.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.repo.ByAuthors(ctx, authorIDs, limit, offset)
}

// Favorite records the viewer's favorite on the article and refreshes
// its stored favorites count.
func (s *Service) Favorite(ctx context.Context, userID int, slug string) (*Article, error) {
	article, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.users.Favorite(ctx, userID, article.ID); err != nil {
		return nil, err
	}
	return s.refreshCount(ctx, article)
}

// Unfavorite removes the viewer's favorite and refreshes the count.
func (s *Service) Unfavorite(ctx context.Context, userID int, slug string) (*Article, error) {
	article, err := s.repo.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.users.Unfavorite(ctx, userID, article.ID); err != nil {
		return nil, err
	}
	return s.refreshCount(ctx, article)
}

func (s *Service) refreshCount(ctx context.Context, article *Article) (*Article, error) {
	count, err := s.repo.RecountFavorites(ctx, article.ID)
	if err != nil {
		return nil, err
	}
	article.FavoritesCount = count
	return article, nil
}

// Tags returns every distinct tag in use across articles.
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	return s.repo.DistinctTags(ctx)
}
