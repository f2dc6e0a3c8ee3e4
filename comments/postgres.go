package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
)

const commentColumns = `c.id, c.body, c.author_id, c.article_id, c.created_at, c.updated_at,
	u.id, u.username, u.email, u.bio, u.image`

// PostgresRepository implements Repository over a pgx connection pool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Postgres-backed comment repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func translateError(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFoundError(err)
	}
	return apperror.NewDatabaseError(message, err)
}

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	var author auth.User
	err := row.Scan(
		&c.ID, &c.Body, &c.AuthorID, &c.ArticleID, &c.CreatedAt, &c.UpdatedAt,
		&author.ID, &author.Username, &author.Email, &author.Bio, &author.Image,
	)
	if err != nil {
		return nil, err
	}
	c.Author = &author
	return &c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		INSERT INTO comments (body, author_id, article_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		comment.Body, comment.AuthorID, comment.ArticleID,
	).Scan(&id)
	if err != nil {
		return nil, translateError(err, "failed to create comment")
	}

	row := r.db.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1`, id)
	created, err := scanComment(row)
	if err != nil {
		return nil, translateError(err, "failed to load comment")
	}
	return created, nil
}

func (r *PostgresRepository) List(ctx context.Context, articleID int) ([]*Comment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.article_id = $1
		ORDER BY c.created_at ASC, c.id ASC`, articleID)
	if err != nil {
		return nil, translateError(err, "failed to list comments")
	}
	defer rows.Close()

	result := []*Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, translateError(err, "failed to scan comment")
		}
		result = append(result, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "failed to iterate comments")
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, commentID, articleID int) (*Comment, error) {
	// The article id is part of the match so a comment cannot be deleted
	// through another article's URL.
	row := r.db.QueryRow(ctx, `
		SELECT `+commentColumns+`
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1 AND c.article_id = $2`, commentID, articleID)
	comment, err := scanComment(row)
	if err != nil {
		return nil, translateError(err, "failed to load comment")
	}

	if _, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, comment.ID); err != nil {
		return nil, translateError(err, "failed to delete comment")
	}
	return comment, nil
}
