package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/repomanager"
)

// ChannelService manages chat channels and their messages. Channel creation
// is restricted to admin accounts; posting and reading require a verified
// session.
type ChannelService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *auth.Verifier
}

func NewChannelService(db *sql.DB, m repomanager.RepositoryManager, verifier *auth.Verifier) *ChannelService {
	return &ChannelService{db: db, repomanager: m, verifier: verifier}
}

func (s *ChannelService) Create(ctx context.Context, token, email, name string) (*models.Channel, error) {
	admin, err := s.verifier.VerifyAdmin(ctx, token, email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Channels(s.db)
	channel, err := repo.Create(ctx, admin.ID, name)
	if err != nil {
		return nil, fmt.Errorf("error creating channel: %w", err)
	}
	return channel, nil
}

func (s *ChannelService) List(ctx context.Context, token, email string) ([]*models.Channel, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Channels(s.db)
	channels, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}
	return channels, nil
}

// ListRecent returns the newest channels first, capped at recentListLimit.
func (s *ChannelService) ListRecent(ctx context.Context, token, email string) ([]*models.Channel, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Channels(s.db)
	channels, err := repo.ListRecent(ctx, recentListLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing channels: %w", err)
	}
	return channels, nil
}

// PostMessage stores a message attributed to the verified account, regardless
// of any name the client supplies.
func (s *ChannelService) PostMessage(ctx context.Context, token, email string, channelID int64, text string) (*models.Message, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Channels(s.db)
	if _, err := repo.GetByID(ctx, channelID); err != nil {
		return nil, fmt.Errorf("error finding channel: %w", err)
	}

	message, err := repo.CreateMessage(ctx, &models.Message{
		ChannelID: channelID,
		Username:  view.Username,
		UserEmail: view.Email,
		Message:   text,
	})
	if err != nil {
		return nil, fmt.Errorf("error posting message: %w", err)
	}
	return message, nil
}

func (s *ChannelService) ListMessages(ctx context.Context, token, email string, channelID int64) ([]*models.Message, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Channels(s.db)
	messages, err := repo.ListMessages(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %w", err)
	}
	return messages, nil
}
