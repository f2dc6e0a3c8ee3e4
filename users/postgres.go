package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jameslahm/conduit-server-rest/apperror"
	"github.com/jameslahm/conduit-server-rest/auth"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const pgUniqueViolation = "23505"

const userColumns = `id, username, email, bio, image, password, created_at, updated_at`

// PostgresRepository is the pgx-backed implementation of Repository.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a Repository backed by the given pool.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(row pgx.Row) (*auth.User, error) {
	var u auth.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Bio, &u.Image, &u.HashedPassword, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// translateError maps store failures to the application error taxonomy:
// duplicate keys become ConflictError, a missing row becomes NotFoundError.
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

func (r *PostgresRepository) Create(ctx context.Context, user *auth.User) (*auth.User, error) {
	query := `INSERT INTO users (username, email, bio, image, password)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.Bio, user.Image, user.HashedPassword))
	if err != nil {
		return nil, translateError(err, "failed to create user")
	}
	return created, nil
}

func (r *PostgresRepository) ByID(ctx context.Context, id int) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, translateError(err, "failed to get user by id")
	}
	return user, nil
}

func (r *PostgresRepository) ByEmail(ctx context.Context, email string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, translateError(err, "failed to get user by email")
	}
	return user, nil
}

func (r *PostgresRepository) ByUsername(ctx context.Context, username string) (*auth.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, username))
	if err != nil {
		return nil, translateError(err, "failed to get user by username")
	}
	return user, nil
}

func (r *PostgresRepository) Update(ctx context.Context, user *auth.User) (*auth.User, error) {
	query := `UPDATE users
	          SET username = $1, email = $2, bio = $3, image = $4, password = $5, updated_at = now()
	          WHERE id = $6
	          RETURNING ` + userColumns
	updated, err := scanUser(r.db.QueryRow(ctx, query,
		user.Username, user.Email, user.Bio, user.Image, user.HashedPassword, user.ID))
	if err != nil {
		return nil, translateError(err, "failed to update user")
	}
	return updated, nil
}

func (r *PostgresRepository) AddFollow(ctx context.Context, followerID, followedID int) error {
	// Plain INSERT: the follows table carries no uniqueness, so repeated
	// follows stack duplicate edges.
	_, err := r.db.Exec(ctx,
		`INSERT INTO follows (follower_id, followed_id) VALUES ($1, $2)`,
		followerID, followedID)
	if err != nil {
		return apperror.NewDatabaseError("failed to add follow", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFollow(ctx context.Context, followerID, followedID int) error {
	// Delete a single edge even when duplicates exist, mirroring the
	// remove-first-occurrence contract. ctid addresses one physical row.
	query := `DELETE FROM follows
	          WHERE ctid = (
	              SELECT ctid FROM follows
	              WHERE follower_id = $1 AND followed_id = $2
	              LIMIT 1
	          )`
	_, err := r.db.Exec(ctx, query, followerID, followedID)
	if err != nil {
		return apperror.NewDatabaseError("failed to remove follow", err)
	}
	return nil
}

func (r *PostgresRepository) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var following bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`,
		followerID, followedID).Scan(&following)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check follow", err)
	}
	return following, nil
}

func (r *PostgresRepository) FollowingIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT followed_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list followed users", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan followed user", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list followed users", err)
	}
	return ids, nil
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, userID, articleID int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO favorites (user_id, article_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, article_id) DO NOTHING`,
		userID, articleID)
	if err != nil {
		return apperror.NewDatabaseError("failed to add favorite", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, articleID int) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND article_id = $2`,
		userID, articleID)
	if err != nil {
		return apperror.NewDatabaseError("failed to remove favorite", err)
	}
	return nil
}

func (r *PostgresRepository) IsFavorite(ctx context.Context, userID, articleID int) (bool, error) {
	var favorite bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND article_id = $2)`,
		userID, articleID).Scan(&favorite)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check favorite", err)
	}
	return favorite, nil
}

func (r *PostgresRepository) FavoriteIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT article_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list favorites", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan favorite", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to list favorites", err)
	}
	return ids, nil
}
