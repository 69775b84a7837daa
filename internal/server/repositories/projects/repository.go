package projects

import (
	"context"

	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Project) (*models.Project, error)
	GetByID(ctx context.Context, id int64) (*models.Project, error)
	List(ctx context.Context) ([]*models.Project, error)
	UpdateParticipants(ctx context.Context, id int64, participants []string) error
	Delete(ctx context.Context, id int64) error
}
