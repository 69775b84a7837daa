package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/dbx"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const fileColumns = `id, dir, encoding, mimetype, uploaded_file_name, server_file_name, creator, project_id, created_at`

func (r *PostgresRepository) Create(ctx context.Context, f *models.StoredFile) (*models.StoredFile, error) {

	query :=
		`INSERT INTO files (dir, encoding, mimetype, uploaded_file_name, server_file_name, creator, project_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		f.Dir, f.Encoding, f.Mimetype, f.UploadedFileName, f.ServerFileName, f.Creator, f.ProjectID).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) GetByServerFileName(ctx context.Context, serverFileName string) (*models.StoredFile, error) {
	query :=
		`SELECT ` + fileColumns + ` FROM files
		 WHERE server_file_name = $1`

	f := &models.StoredFile{}
	err := r.db.QueryRowContext(ctx, query, serverFileName).
		Scan(&f.ID, &f.Dir, &f.Encoding, &f.Mimetype, &f.UploadedFileName, &f.ServerFileName, &f.Creator, &f.ProjectID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, creator string) ([]*models.StoredFile, error) {
	query :=
		`SELECT ` + fileColumns + ` FROM files
		 WHERE creator = $1
		 ORDER BY created_at`

	return r.list(ctx, query, creator)
}

func (r *PostgresRepository) ListByProject(ctx context.Context, projectID int64) ([]*models.StoredFile, error) {
	query :=
		`SELECT ` + fileColumns + ` FROM files
		 WHERE project_id = $1
		 ORDER BY created_at`

	return r.list(ctx, query, projectID)
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.StoredFile, error) {
	query :=
		`SELECT ` + fileColumns + ` FROM files
		 ORDER BY created_at DESC
		 LIMIT $1`

	return r.list(ctx, query, limit)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]*models.StoredFile, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.StoredFile
	for rows.Next() {
		f := &models.StoredFile{}
		if err := rows.Scan(&f.ID, &f.Dir, &f.Encoding, &f.Mimetype, &f.UploadedFileName, &f.ServerFileName, &f.Creator, &f.ProjectID, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
