package channels

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

func (r *PostgresRepository) Create(ctx context.Context, creatorID, name string) (*models.Channel, error) {

	query :=
		`INSERT INTO channels (creator_id, name)
		 VALUES ($1, $2)
		 RETURNING id, creator_id, name, created_at`

	c := &models.Channel{}
	err := r.db.QueryRowContext(ctx, query, creatorID, name).
		Scan(&c.ID, &c.CreatorID, &c.Name, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	query :=
		`SELECT id, creator_id, name, created_at FROM channels
		 WHERE id = $1`

	c := &models.Channel{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.CreatorID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Channel, error) {
	query := `SELECT id, creator_id, name, created_at FROM channels ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Channel
	for rows.Next() {
		c := &models.Channel{}
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]*models.Channel, error) {
	query :=
		`SELECT id, creator_id, name, created_at FROM channels
		 ORDER BY id DESC
		 LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Channel
	for rows.Next() {
		c := &models.Channel{}
		if err := rows.Scan(&c.ID, &c.CreatorID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {

	query :=
		`INSERT INTO messages (channel_id, username, user_email, message)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, m.ChannelID, m.Username, m.UserEmail, m.Message).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return m, nil
}

func (r *PostgresRepository) ListMessages(ctx context.Context, channelID int64) ([]*models.Message, error) {
	query :=
		`SELECT id, channel_id, username, user_email, message, created_at FROM messages
		 WHERE channel_id = $1
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Message
	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.ChannelID, &m.Username, &m.UserEmail, &m.Message, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
