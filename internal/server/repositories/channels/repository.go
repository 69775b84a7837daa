package channels

import (
	"context"

	"github.com/dmitrijs2005/collabpack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, creatorID, name string) (*models.Channel, error)
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	List(ctx context.Context) ([]*models.Channel, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Channel, error)
	CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error)
	ListMessages(ctx context.Context, channelID int64) ([]*models.Message, error)
}
