package accounts

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

const accountColumns = `user_id, email, username, password, phone, user_group, account_type`

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.Password, &a.Phone, &a.UserGroup, &a.AccountType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.AccountCreation) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (email, username, password, phone, user_group, account_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query,
		c.Email, c.Username, c.Password, c.Phone, c.UserGroup, c.AccountType)

	a, err := scanAccount(row)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE email = $1`

	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM accounts
		 WHERE user_id = $1`

	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY email`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Account
	for rows.Next() {
		a := &models.Account{}
		if err := rows.Scan(&a.ID, &a.Email, &a.Username, &a.Password, &a.Phone, &a.UserGroup, &a.AccountType); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateDetail(ctx context.Context, email, username, phone, userGroup string) (*models.Account, error) {
	query :=
		`UPDATE accounts SET username = $2, phone = $3, user_group = $4
		 WHERE email = $1
		 RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query, email, username, phone, userGroup))
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	query :=
		`UPDATE accounts SET password = $2
		 WHERE email = $1`

	res, err := r.db.ExecContext(ctx, query, email, passwordHash)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts
		 SET username = $2, password = $3, phone = $4, user_group = $5, account_type = $6
		 WHERE email = $1
		 RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query,
		a.Email, a.Username, a.Password, a.Phone, a.UserGroup, a.AccountType))
}

func (r *PostgresRepository) Delete(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
