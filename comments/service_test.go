package comments

import (
	"context"
	"testing"
	"time"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/articles"
	"github.com/jameslahm/conduit-server-rest/auth"
	"github.com/jameslahm/conduit-server-rest/users"
)

// stubUserRepo satisfies users.Repository; only the author lookup is used
// from here.
type stubUserRepo struct {
	users map[int]*auth.User
}

func (s *stubUserRepo) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	return user, nil
}

func (s *stubUserRepo) ByID(ctx context.Context, id int) (*auth.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError(nil)
	}
	return user, nil
}

func (s *stubUserRepo) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, apperror.NewNotFoundError(nil)
}

func (s *stubUserRepo) ByUsername(ctx context.Context, username string) (*auth.User, error) {
	return nil, apperror.NewNotFoundError(nil)
}

func (s *stubUserRepo) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	return user, nil
}

func (s *stubUserRepo) AddFollow(ctx context.Context, followerID, followedID int) error { return nil }
func (s *stubUserRepo) RemoveFollow(ctx context.Context, followerID, followedID int) error {
	return nil
}
func (s *stubUserRepo) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) FollowingIDs(ctx context.Context, userID int) ([]int, error) {
	return []int{}, nil
}
func (s *stubUserRepo) AddFavorite(ctx context.Context, userID, articleID int) error { return nil }
func (s *stubUserRepo) RemoveFavorite(ctx context.Context, userID, articleID int) error {
	return nil
}
func (s *stubUserRepo) IsFavorite(ctx context.Context, userID, articleID int) (bool, error) {
	return false, nil
}
func (s *stubUserRepo) FavoriteIDs(ctx context.Context, userID int) ([]int, error) {
	return []int{}, nil
}

// stubArticleRepo serves a fixed slug-to-article mapping.
type stubArticleRepo struct {
	bySlug map[string]*articles.Article
}

func (s *stubArticleRepo) Create(ctx context.Context, article *articles.Article) (*articles.Article, error) {
	return article, nil
}

func (s *stubArticleRepo) BySlug(ctx context.Context, slug string) (*articles.Article, error) {
	article, ok := s.bySlug[slug]
	if !ok {
		return nil, apperror.NewNotFoundError(nil)
	}
	return article, nil
}

func (s *stubArticleRepo) Update(ctx context.Context, article *articles.Article) (*articles.Article, error) {
	return article, nil
}

func (s *stubArticleRepo) Delete(ctx context.Context, slug string) (*articles.Article, error) {
	return nil, apperror.NewNotFoundError(nil)
}

func (s *stubArticleRepo) List(ctx context.Context, filter articles.Filter) ([]*articles.Article, error) {
	return []*articles.Article{}, nil
}

func (s *stubArticleRepo) ByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*articles.Article, error) {
	return []*articles.Article{}, nil
}

func (s *stubArticleRepo) RecountFavorites(ctx context.Context, articleID int) (int, error) {
	return 0, nil
}

func (s *stubArticleRepo) DistinctTags(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

// fakeCommentRepo is an in-memory comment Repository scoping deletes to
// the owning article.
type fakeCommentRepo struct {
	nextID   int
	comments map[int]*Comment
	authors  map[int]*auth.User
}

func newFakeCommentRepo(authors map[int]*auth.User) *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[int]*Comment{}, authors: authors}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	f.nextID++
	stored := *comment
	stored.ID = f.nextID
	stored.Author = f.authors[comment.AuthorID]
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.comments[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeCommentRepo) List(ctx context.Context, articleID int) ([]*Comment, error) {
	result := []*Comment{}
	for id := 1; id <= f.nextID; id++ {
		if comment, ok := f.comments[id]; ok && comment.ArticleID == articleID {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) Delete(ctx context.Context, commentID, articleID int) (*Comment, error) {
	comment, ok := f.comments[commentID]
	if !ok || comment.ArticleID != articleID {
		return nil, apperror.NewNotFoundError(nil)
	}
	delete(f.comments, commentID)
	return comment, nil
}

func newTestService() (*Service, *fakeCommentRepo) {
	authors := map[int]*auth.User{
		1: {ID: 1, Username: "jake"},
	}
	articleRepo := &stubArticleRepo{bySlug: map[string]*articles.Article{
		"dragons-abc123": {ID: 10, Slug: "dragons-abc123", AuthorID: 1, Author: authors[1]},
		"cats-def456":    {ID: 11, Slug: "cats-def456", AuthorID: 1, Author: authors[1]},
	}}
	userService := users.NewService(&stubUserRepo{users: authors})
	articleService := articles.NewService(articleRepo, userService)
	repo := newFakeCommentRepo(authors)
	return NewService(repo, articleService), repo
}

func TestCreateComment(t *testing.T) {
	svc, _ := newTestService()

	comment, err := svc.Create(context.Background(), "dragons-abc123", 1, "His name was Toothless")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if comment.ID == 0 {
		t.Error("Create() did not assign an id")
	}
	if comment.ArticleID != 10 {
		t.Errorf("Create() articleID = %d, want 10", comment.ArticleID)
	}
	if comment.Author == nil || comment.Author.Username != "jake" {
		t.Errorf("Create() author = %+v, want jake", comment.Author)
	}
}

func TestCreateCommentUnknownArticle(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "no-such-slug", 1, "hello"); !apperror.IsNotFound(err) {
		t.Errorf("Create() error = %v, want not found", err)
	}
}

func TestListCommentsInCreationOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, _ := svc.Create(ctx, "dragons-abc123", 1, "first")
	second, _ := svc.Create(ctx, "dragons-abc123", 1, "second")
	svc.Create(ctx, "cats-def456", 1, "other thread")

	thread, err := svc.List(ctx, "dragons-abc123")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("List() = %d comments, want 2", len(thread))
	}
	if thread[0].ID != first.ID || thread[1].ID != second.ID {
		t.Errorf("List() order = [%d %d], want [%d %d]", thread[0].ID, thread[1].ID, first.ID, second.ID)
	}
}

func TestDeleteCommentScopedToArticle(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	comment, err := svc.Create(ctx, "dragons-abc123", 1, "to be removed")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The comment belongs to the dragons article; a delete through the
	// cats article's URL must not find it.
	if _, err := svc.Delete(ctx, "cats-def456", comment.ID); !apperror.IsNotFound(err) {
		t.Errorf("Delete() through wrong article error = %v, want not found", err)
	}
	if _, ok := repo.comments[comment.ID]; !ok {
		t.Fatal("comment removed through the wrong article")
	}

	deleted, err := svc.Delete(ctx, "dragons-abc123", comment.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if deleted.Body != "to be removed" {
		t.Errorf("Delete() returned %q, want the deleted comment", deleted.Body)
	}
	if _, ok := repo.comments[comment.ID]; ok {
		t.Error("comment still present after delete")
	}
}
