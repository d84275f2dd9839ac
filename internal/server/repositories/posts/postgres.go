package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/dbx"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

const pgInvalidTextFormat = "22P02"

const selectColumns = `p.id, p.title, p.summary, p.content, p.cover, p.author_id, a.handle, p.created_at, p.updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query :=
		`WITH p AS (
			INSERT INTO posts (title, summary, content, cover, author_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		 )
		 SELECT ` + selectColumns + `
		 FROM p JOIN accounts a ON a.id = p.author_id`

	row := r.db.QueryRowContext(ctx, query, post.Title, post.Summary, post.Content, post.Cover, post.AuthorID)
	return scanPost(row)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, patch models.PostPatch, cover *string) (*models.Post, error) {
	query :=
		`WITH p AS (
			UPDATE posts SET
				title = COALESCE($2, title),
				summary = COALESCE($3, summary),
				content = COALESCE($4, content),
				cover = COALESCE($5, cover),
				updated_at = now()
			WHERE id = $1
			RETURNING *
		 )
		 SELECT ` + selectColumns + `
		 FROM p JOIN accounts a ON a.id = p.author_id`

	row := r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Summary, patch.Content, cover)
	return scanPost(row)
}

func (r *PostgresRepository) List(ctx context.Context, limit int, order models.SortOrder) ([]*models.Post, error) {
	dir := "DESC"
	if order == models.SortAsc {
		dir = "ASC"
	}

	query :=
		`SELECT ` + selectColumns + `
		 FROM posts p JOIN accounts a ON a.id = p.author_id
		 ORDER BY p.created_at ` + dir + `, p.seq ` + dir + `
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT ` + selectColumns + `
		 FROM posts p JOIN accounts a ON a.id = p.author_id
		 WHERE p.id = $1`

	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error) {
	query :=
		`SELECT ` + selectColumns + `
		 FROM posts p JOIN accounts a ON a.id = p.author_id
		 WHERE p.id = $1
		 FOR UPDATE OF p`

	return scanPost(r.db.QueryRowContext(ctx, query, id))
}

func scanPost(row dbx.Scanner) (*models.Post, error) {
	p := &models.Post{}
	var cover sql.NullString

	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &cover, &p.AuthorID, &p.AuthorHandle, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgInvalidTextFormat {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if cover.Valid {
		p.Cover = &cover.String
	}
	return p, nil
}
