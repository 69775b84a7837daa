package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/filex"
	"github.com/dmitrijs2005/collabpack/internal/logging"
	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	sc "github.com/dmitrijs2005/collabpack/internal/server/config"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/collabpack/internal/server/storage"
	"github.com/google/uuid"
)

// MaxUploadBytes is the hard ceiling on the size of a single upload body.
const MaxUploadBytes = 1_000_000_000

var whitespaceRe = regexp.MustCompile(`\s+`)

// UploadInput describes an incoming upload. Body is streamed, never
// buffered whole; its length is not known up front.
type UploadInput struct {
	Body      io.Reader
	Filename  string
	Mimetype  string
	Encoding  string
	ProjectID *int64
}

// UploadResult echoes back the stored file's client-visible attributes.
type UploadResult struct {
	Filename string `json:"filename"`
	Mimetype string `json:"mimetype"`
	Encoding string `json:"encoding"`
}

// UploadService streams file bodies into object storage and records their
// metadata. A metadata record is only written once the bytes are fully stored.
type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    *auth.Verifier
	store       storage.BlobStore
	config      *sc.Config
	logger      logging.Logger
}

func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, verifier *auth.Verifier,
	store storage.BlobStore, config *sc.Config, logger logging.Logger) *UploadService {
	return &UploadService{
		db:          db,
		repomanager: m,
		verifier:    verifier,
		store:       store,
		config:      config,
		logger:      logger,
	}
}

// GenerateStorageName derives a collision-free storage key from the original
// file name: a fresh UUID prefix plus the name with whitespace runs replaced
// by dashes. Two uploads of the same name never collide.
func GenerateStorageName(uploadedFileName string) string {
	return fmt.Sprintf("%v-%s", uuid.New(), whitespaceRe.ReplaceAllString(uploadedFileName, "-"))
}

// Upload verifies the session, streams the body into object storage under a
// generated key and records the file's metadata. Bodies over MaxUploadBytes
// fail with ErrPayloadTooLarge; storage failures fail with ErrUploadFailed.
// No metadata is recorded on any failure.
func (s *UploadService) Upload(ctx context.Context, token, email string, in *UploadInput) (*UploadResult, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}

	dir, err := filex.EnsureSubDir(s.config.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	serverFileName := GenerateStorageName(in.Filename)

	guarded := &capReader{r: in.Body, remaining: MaxUploadBytes}
	if err := s.store.Put(ctx, serverFileName, guarded); err != nil {
		if errors.Is(err, common.ErrPayloadTooLarge) {
			return nil, common.ErrPayloadTooLarge
		}
		s.logger.Error(ctx, "blob store write failed", "key", serverFileName, "error", err)
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}

	repo := s.repomanager.Files(s.db)
	_, err = repo.Create(ctx, &models.StoredFile{
		Dir:              dir,
		Encoding:         in.Encoding,
		Mimetype:         in.Mimetype,
		UploadedFileName: in.Filename,
		ServerFileName:   serverFileName,
		Creator:          view.Email,
		ProjectID:        in.ProjectID,
	})
	if err != nil {
		return nil, fmt.Errorf("error recording file metadata: %w", err)
	}

	return &UploadResult{
		Filename: in.Filename,
		Mimetype: in.Mimetype,
		Encoding: in.Encoding,
	}, nil
}

// Download verifies the session and returns the file's metadata together with
// a reader over its stored bytes. The caller must close the reader.
func (s *UploadService) Download(ctx context.Context, token, email, serverFileName string) (*models.StoredFile, io.ReadCloser, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, nil, err
	}

	repo := s.repomanager.Files(s.db)
	file, err := repo.GetByServerFileName(ctx, serverFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error finding file: %w", err)
	}

	body, err := s.store.Get(ctx, serverFileName)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading file: %w", err)
	}
	return file, body, nil
}

// ListMine returns metadata for the caller's own uploads.
func (s *UploadService) ListMine(ctx context.Context, token, email string) ([]*models.StoredFile, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Files(s.db)
	files, err := repo.ListByCreator(ctx, view.Email)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

// ListProjectFiles returns metadata for a project's uploads. The caller
// must be a project participant; admins may list any project.
func (s *UploadService) ListProjectFiles(ctx context.Context, token, email string, projectID int64) ([]*models.StoredFile, error) {
	view, err := s.verifier.Verify(ctx, token, email)
	if err != nil {
		return nil, err
	}

	project, err := s.repomanager.Projects(s.db).GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error finding project: %w", err)
	}
	if !slices.Contains(project.Participants, view.Email) &&
		!strings.EqualFold(view.AccountType, "admin") {
		return nil, fmt.Errorf("%w: account is not a project participant", common.ErrorUnauthorized)
	}

	files, err := s.repomanager.Files(s.db).ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

// recentListLimit caps the convenience "recent" listings.
const recentListLimit = 3

// ListRecent returns the newest uploads across all accounts.
func (s *UploadService) ListRecent(ctx context.Context, token, email string) ([]*models.StoredFile, error) {
	if _, err := s.verifier.Verify(ctx, token, email); err != nil {
		return nil, err
	}

	files, err := s.repomanager.Files(s.db).ListRecent(ctx, recentListLimit)
	if err != nil {
		return nil, fmt.Errorf("error listing files: %w", err)
	}
	return files, nil
}

// capReader passes bytes through until the cap is exhausted, then fails the
// read with ErrPayloadTooLarge. It never buffers.
type capReader struct {
	r         io.Reader
	remaining int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.remaining <= 0 {
		// Only fail if there is actually more data.
		n, err := c.r.Read(p[:min(len(p), 1)])
		if n > 0 {
			return 0, common.ErrPayloadTooLarge
		}
		return 0, err
	}
	if int64(len(p)) > c.remaining {
		p = p[:c.remaining]
	}
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	return n, err
}
