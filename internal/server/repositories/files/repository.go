package files

import (
	"context"

	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.StoredFile) (*models.StoredFile, error)
	GetByServerFileName(ctx context.Context, serverFileName string) (*models.StoredFile, error)
	ListByCreator(ctx context.Context, creator string) ([]*models.StoredFile, error)
	ListByProject(ctx context.Context, projectID int64) ([]*models.StoredFile, error)
	ListRecent(ctx context.Context, limit int) ([]*models.StoredFile, error)
}
