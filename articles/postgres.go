package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
)

const pgUniqueViolation = "23505"

// articleColumns lists the article fields plus the joined author fields,
// in the order scanArticle expects them.
const articleColumns = `a.id, a.slug, a.title, a.description, a.body, a.tag_list,
	a.favorites_count, a.author_id, a.created_at, a.updated_at,
	u.id, u.username, u.email, u.bio, u.image`

// PostgresRepository implements Repository over a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed article repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func translateError(err error, message string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return apperror.NewConflictError(err)
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFoundError(err)
	}
	return apperror.NewDatabaseError(message, err)
}

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	var author auth.User
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.TagList,
		&a.FavoritesCount, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
		&author.ID, &author.Username, &author.Email, &author.Bio, &author.Image,
	)
	if err != nil {
		return nil, err
	}
	a.Author = &author
	return &a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, article *Article) (*Article, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO articles (slug, title, description, body, tag_list, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		article.Slug, article.Title, article.Description, article.Body,
		article.TagList, article.AuthorID,
	).Scan(&id)
	if err != nil {
		return nil, translateError(err, "failed to create article")
	}
	return r.byID(ctx, id)
}

func (r *PostgresRepository) byID(ctx context.Context, id int) (*Article, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1`, id)
	article, err := scanArticle(row)
	if err != nil {
		return nil, translateError(err, "failed to load article")
	}
	return article, nil
}

func (r *PostgresRepository) BySlug(ctx context.Context, slug string) (*Article, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.slug = $1`, slug)
	article, err := scanArticle(row)
	if err != nil {
		return nil, translateError(err, "failed to load article by slug")
	}
	return article, nil
}

func (r *PostgresRepository) Update(ctx context.Context, article *Article) (*Article, error) {
	_, err := r.db.Exec(ctx, `
		UPDATE articles
		SET slug = $1, title = $2, description = $3, body = $4, tag_list = $5,
			updated_at = now()
		WHERE id = $6`,
		article.Slug, article.Title, article.Description, article.Body,
		article.TagList, article.ID,
	)
	if err != nil {
		return nil, translateError(err, "failed to update article")
	}
	return r.byID(ctx, article.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, slug string) (*Article, error) {
	article, err := r.BySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, article.ID); err != nil {
		return nil, translateError(err, "failed to delete article")
	}
	return article, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter Filter) ([]*Article, error) {
	var conditions []string
	var args []interface{}

	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(a.tag_list)", len(args)))
	}
	if filter.AuthorID != 0 {
		args = append(args, filter.AuthorID)
		conditions = append(conditions, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if filter.FavoritedBy != 0 {
		args = append(args, filter.FavoritedBy)
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = $%d)",
			len(args)))
	}

	query := `
		SELECT ` + articleColumns + `
		FROM articles a
		JOIN users u ON u.id = a.author_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, filter.Limit)
	query += fmt.Sprintf(" ORDER BY a.created_at DESC, a.id DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return r.queryArticles(ctx, query, args...)
}

func (r *PostgresRepository) ByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*Article, error) {
	if len(authorIDs) == 0 {
		return []*Article{}, nil
	}
	return r.queryArticles(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.author_id = ANY($1)
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $2 OFFSET $3`,
		authorIDs, limit, offset)
}

func (r *PostgresRepository) queryArticles(ctx context.Context, query string, args ...interface{}) ([]*Article, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "failed to list articles")
	}
	defer rows.Close()

	result := []*Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan article")
		}
		result = append(result, article)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate articles")
	}
	return result, nil
}

func (r *PostgresRepository) RecountFavorites(ctx context.Context, articleID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		UPDATE articles
		SET favorites_count = (SELECT count(*) FROM favorites WHERE article_id = $1)
		WHERE id = $1
		RETURNING favorites_count`, articleID).Scan(&count)
	if err != nil {
		return 0, translateError(err, "failed to recount favorites")
	}
	return count, nil
}

func (r *PostgresRepository) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT DISTINCT unnest(tag_list) AS tag FROM articles ORDER BY tag`)
	if err != nil {
		return nil, translateError(err, "failed to list tags")
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, translateError(err, "failed to scan tag")
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate tags")
	}
	return tags, nil
}
