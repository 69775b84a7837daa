package services

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/collabpack/internal/common"
	"github.com/dmitrijs2005/collabpack/internal/dbx"
	"github.com/dmitrijs2005/collabpack/internal/logging"
	"github.com/dmitrijs2005/collabpack/internal/server/auth"
	sc "github.com/dmitrijs2005/collabpack/internal/server/config"
	"github.com/dmitrijs2005/collabpack/internal/server/models"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/channels"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/files"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/projects"
	"github.com/dmitrijs2005/collabpack/internal/server/sessionlog"
)

// --- in-memory repositories ---

type fakeAccountRepo struct {
	mu      sync.Mutex
	byEmail map[string]*models.Account
	nextID  int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: map[string]*models.Account{}}
}

func (r *fakeAccountRepo) add(a *models.Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail[a.Email] = a
}

func (r *fakeAccountRepo) Create(ctx context.Context, c *models.AccountCreation) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	a := &models.Account{
		ID:          fmt.Sprintf("acc-%d", r.nextID),
		Email:       c.Email,
		Username:    c.Username,
		Password:    c.Password,
		Phone:       c.Phone,
		UserGroup:   c.UserGroup,
		AccountType: c.AccountType,
	}
	r.byEmail[a.Email] = a
	return a, nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*models.Account
	for _, a := range r.byEmail {
		result = append(result, a)
	}
	return result, nil
}

func (r *fakeAccountRepo) UpdateDetail(ctx context.Context, email, username, phone, userGroup string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a.Username, a.Phone, a.UserGroup = username, phone, userGroup
	return a, nil
}

func (r *fakeAccountRepo) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byEmail[email]
	if !ok {
		return common.ErrorNotFound
	}
	a.Password = passwordHash
	return nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byEmail[a.Email] = a
	return a, nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byEmail, email)
	return nil
}

type fakeChannelRepo struct {
	channels []*models.Channel
	messages []*models.Message
	nextID   int64
}

func (r *fakeChannelRepo) Create(ctx context.Context, creatorID, name string) (*models.Channel, error) {
	r.nextID++
	c := &models.Channel{ID: r.nextID, CreatorID: creatorID, Name: name, CreatedAt: time.Now()}
	r.channels = append(r.channels, c)
	return c, nil
}

func (r *fakeChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	for _, c := range r.channels {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeChannelRepo) List(ctx context.Context) ([]*models.Channel, error) {
	return r.channels, nil
}

func (r *fakeChannelRepo) ListRecent(ctx context.Context, limit int) ([]*models.Channel, error) {
	var result []*models.Channel
	for i := len(r.channels) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.channels[i])
	}
	return result, nil
}

func (r *fakeChannelRepo) CreateMessage(ctx context.Context, m *models.Message) (*models.Message, error) {
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *fakeChannelRepo) ListMessages(ctx context.Context, channelID int64) ([]*models.Message, error) {
	var result []*models.Message
	for _, m := range r.messages {
		if m.ChannelID == channelID {
			result = append(result, m)
		}
	}
	return result, nil
}

type fakeProjectRepo struct {
	byID   map[int64]*models.Project
	nextID int64
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{byID: map[int64]*models.Project{}}
}

func (r *fakeProjectRepo) Create(ctx context.Context, p *models.Project) (*models.Project, error) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.byID[p.ID] = p
	return p, nil
}

func (r *fakeProjectRepo) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *p
	cp.Participants = append([]string(nil), p.Participants...)
	return &cp, nil
}

func (r *fakeProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	var result []*models.Project
	for _, p := range r.byID {
		result = append(result, p)
	}
	return result, nil
}

func (r *fakeProjectRepo) UpdateParticipants(ctx context.Context, id int64, participants []string) error {
	p, ok := r.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	p.Participants = participants
	return nil
}

func (r *fakeProjectRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.byID, id)
	return nil
}

type fakeFileRepo struct {
	created []*models.StoredFile
	fail    error
}

func (r *fakeFileRepo) Create(ctx context.Context, f *models.StoredFile) (*models.StoredFile, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	f.ID = fmt.Sprintf("file-%d", len(r.created)+1)
	f.CreatedAt = time.Now()
	r.created = append(r.created, f)
	return f, nil
}

func (r *fakeFileRepo) GetByServerFileName(ctx context.Context, serverFileName string) (*models.StoredFile, error) {
	for _, f := range r.created {
		if f.ServerFileName == serverFileName {
			return f, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeFileRepo) ListByCreator(ctx context.Context, creator string) ([]*models.StoredFile, error) {
	var result []*models.StoredFile
	for _, f := range r.created {
		if f.Creator == creator {
			result = append(result, f)
		}
	}
	return result, nil
}

func (r *fakeFileRepo) ListByProject(ctx context.Context, projectID int64) ([]*models.StoredFile, error) {
	var result []*models.StoredFile
	for _, f := range r.created {
		if f.ProjectID != nil && *f.ProjectID == projectID {
			result = append(result, f)
		}
	}
	return result, nil
}

func (r *fakeFileRepo) ListRecent(ctx context.Context, limit int) ([]*models.StoredFile, error) {
	var result []*models.StoredFile
	for i := len(r.created) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, r.created[i])
	}
	return result, nil
}

// --- repository manager over the fakes ---

type fakeManager struct {
	accounts *fakeAccountRepo
	channels *fakeChannelRepo
	projects *fakeProjectRepo
	files    *fakeFileRepo
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		accounts: newFakeAccountRepo(),
		channels: &fakeChannelRepo{},
		projects: newFakeProjectRepo(),
		files:    &fakeFileRepo{},
	}
}

func (m *fakeManager) RunMigrations(ctx context.Context) error            { return nil }
func (m *fakeManager) Conn() *sql.DB                                      { return nil }
func (m *fakeManager) Accounts(db dbx.DBTX) accounts.Repository           { return m.accounts }
func (m *fakeManager) Channels(db dbx.DBTX) channels.Repository           { return m.channels }
func (m *fakeManager) Projects(db dbx.DBTX) projects.Repository           { return m.projects }
func (m *fakeManager) Files(db dbx.DBTX) files.Repository                 { return m.files }

// --- blob stores ---

// countingStore discards bodies but records how many bytes each key carried.
type countingStore struct {
	sizes map[string]int64
	fail  error
}

func newCountingStore() *countingStore {
	return &countingStore{sizes: map[string]int64{}}
}

func (s *countingStore) Put(ctx context.Context, key string, body io.Reader) error {
	if s.fail != nil {
		return s.fail
	}
	n, err := io.Copy(io.Discard, body)
	if err != nil {
		return err
	}
	s.sizes[key] = n
	return nil
}

func (s *countingStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, common.ErrorNotFound
}

// contentStore keeps small bodies in memory for download tests.
type contentStore struct {
	objects map[string][]byte
}

func newContentStore() *contentStore {
	return &contentStore{objects: map[string][]byte{}}
}

func (s *contentStore) Put(ctx context.Context, key string, body io.Reader) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[key] = raw
	return nil
}

func (s *contentStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	raw, ok := s.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

// --- common fixture ---

type fixture struct {
	manager  *fakeManager
	codec    *auth.Codec
	verifier *auth.Verifier
	sessions *sessionlog.Ledger
	config   *sc.Config
	logger   logging.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	manager := newFakeManager()
	codec := auth.NewCodec([]byte("test-secret"), "collabpack", "account", "collabpack-clients", 48*time.Hour)
	verifier := auth.NewVerifier(codec, manager.accounts)

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	sessions := sessionlog.New(filepath.Join(t.TempDir(), "login.log"), logger)

	cfg := &sc.Config{}
	cfg.LoadDefaults()
	cfg.UploadDir = "upload"

	return &fixture{
		manager:  manager,
		codec:    codec,
		verifier: verifier,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// seedAccount registers an account with the given plaintext password and
// returns it together with a valid token.
func (f *fixture) seedAccount(t *testing.T, email, password, accountType string) (*models.Account, string) {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	a := &models.Account{
		ID:          "acc-" + email,
		Email:       email,
		Username:    "user-" + email,
		Password:    hash,
		AccountType: accountType,
	}
	f.manager.accounts.add(a)

	token, err := f.codec.Issue(a.View())
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	return a, token
}
