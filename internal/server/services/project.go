package services

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/dbx"
	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/repomanager"
)

// ProjectService manages project packs and their participant lists.
type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *auth.Verifier
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager, verifier *auth.Verifier) *ProjectService {
	return &ProjectService{db: db, repomanager: m, verifier: verifier}
}

// Create opens a new project with the caller as its only participant.
func (s *ProjectService) Create(ctx context.Context, token, email, projectName string) (*models.Project, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Projects(s.db)
	project, err := repo.Create(ctx, &models.Project{
		ProjectName:  projectName,
		CreatorEmail: view.Email,
		Participants: []string{view.Email},
	})
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, token, email string) ([]*models.Project, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Projects(s.db)
	projects, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, token, email string, id int64) (*models.Project, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	repo := s.repomanager.Projects(s.db)
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding project: %w", err)
	}
	return project, nil
}

// AddParticipant appends an existing account to the project's participant
// list. The read-modify-write of the list runs in a transaction so two
// concurrent additions cannot drop each other.
func (s *ProjectService) AddParticipant(ctx context.Context, token, email string, id int64, participant string) (*models.Project, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Accounts(s.db).GetByEmail(ctx, participant); err != nil {
		return nil, fmt.Errorf("%w: participant account could not be found", common.ErrorBadInput)
	}

	var project *models.Project
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Projects(tx)

		p, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("error finding project: %w", err)
		}
		if slices.Contains(p.Participants, participant) {
			return fmt.Errorf("%w: account is already a project participant", common.ErrorBadInput)
		}

		p.Participants = append(p.Participants, participant)
		if err := repo.UpdateParticipants(ctx, id, p.Participants); err != nil {
			return fmt.Errorf("error updating participants: %w", err)
		}

		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes a project. Only the creator or an admin may delete it.
func (s *ProjectService) Delete(ctx context.Context, token, email string, id int64) error {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return err
	}

	repo := s.repomanager.Projects(s.db)
	project, err := repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error finding project: %w", err)
	}
	if project.CreatorEmail != view.Email {
		if _, err := s.verifier.VerifyAdmin(ctx, token, email); err != nil {
			return err
		}
	}

	if err := repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	return nil
}
