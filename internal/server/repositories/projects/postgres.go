package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/dbx"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

// Participants are stored as a jsonb array of emails.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func marshalParticipants(participants []string) ([]byte, error) {
	if participants == nil {
		participants = []string{}
	}
	return json.Marshal(participants)
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Project) (*models.Project, error) {

	raw, err := marshalParticipants(p.Participants)
	if err != nil {
		return nil, err
	}

	query :=
		`INSERT INTO projects (project_name, creator_email, participants)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err = r.db.QueryRowContext(ctx, query, p.ProjectName, p.CreatorEmail, raw).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	query :=
		`SELECT id, project_name, creator_email, participants, created_at FROM projects
		 WHERE id = $1`

	p := &models.Project{}
	var raw []byte
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.ProjectName, &p.CreatorEmail, &raw, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(raw, &p.Participants); err != nil {
		return nil, fmt.Errorf("decode participants: %w", err)
	}

	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Project, error) {
	query := `SELECT id, project_name, creator_email, participants, created_at FROM projects ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Project
	for rows.Next() {
		p := &models.Project{}
		var raw []byte
		if err := rows.Scan(&p.ID, &p.ProjectName, &p.CreatorEmail, &raw, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if err := json.Unmarshal(raw, &p.Participants); err != nil {
			return nil, fmt.Errorf("decode participants: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateParticipants(ctx context.Context, id int64, participants []string) error {

	raw, err := marshalParticipants(participants)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE projects SET participants = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
