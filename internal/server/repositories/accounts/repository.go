package accounts

import (
	"context"

	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.AccountCreation) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	List(ctx context.Context) ([]*models.Account, error)
	UpdateDetail(ctx context.Context, email, username, phone, userGroup string) (*models.Account, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	Update(ctx context.Context, a *models.Account) (*models.Account, error)
	Delete(ctx context.Context, email string) error
}
