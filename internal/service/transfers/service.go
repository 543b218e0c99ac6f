package transfers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockflow/internal/domain/models"
	"github.com/mamadbah2/stockflow/internal/service/staging"
)

// ErrUnknownUser indicates the caller is not in the user directory.
var ErrUnknownUser = errors.New("unknown user")

// Backend is the inventory API surface the service depends on.
type Backend interface {
	staging.StockLookup
	staging.TransferDispatcher
	ListBranches(ctx context.Context) ([]models.Branch, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListSkuCodes(ctx context.Context) ([]models.SkuCode, error)
}

// Recorder persists the outcome of a submit attempt.
type Recorder interface {
	Record(ctx context.Context, userID string, result models.SubmissionResult) error
}

// DirectoryView is what a user may pick from when staging transfers.
type DirectoryView struct {
	Branches  []models.Branch  `json:"branches"`
	Engineers []models.User    `json:"engineers"`
	SkuCodes  []models.SkuCode `json:"skuCodes"`
}

// StagingView is the current state of a user's staging session.
type StagingView struct {
	Items  []models.TransferLineItem `json:"items"`
	Draft  staging.Draft             `json:"draft"`
	Totals staging.Totals            `json:"totals"`
}

// Service exposes staging operations keyed by user.
type Service struct {
	backend   Backend
	sessions  *staging.SessionManager
	recorders []Recorder
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu        sync.Mutex
	directory staging.Directory
	loadedAt  time.Time
}

// NewService wires a transfers service instance.
func NewService(backend Backend, sessions *staging.SessionManager, directoryTTL time.Duration, logger *zap.Logger, recorders ...Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessions == nil {
		sessions = staging.NewSessionManager()
	}
	return &Service{
		backend:   backend,
		sessions:  sessions,
		recorders: recorders,
		ttl:       directoryTTL,
		logger:    logger,
		now:       time.Now,
	}
}

// Directory returns the destinations and catalogue available to userID.
func (s *Service) Directory(ctx context.Context, userID string) (DirectoryView, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return DirectoryView{}, err
	}
	env := engine.Context()
	return DirectoryView{
		Branches:  env.Branches(),
		Engineers: env.Engineers(),
		SkuCodes:  env.Directory.SkuCodes,
	}, nil
}

// SelectSku selects a SKU for the user's draft.
func (s *Service) SelectSku(ctx context.Context, userID, skuID string) (int, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return 0, err
	}
	return engine.SelectSku(ctx, skuID)
}

// ClearSelection abandons the user's draft.
func (s *Service) ClearSelection(ctx context.Context, userID string) error {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return err
	}
	engine.ClearSelection()
	return nil
}

// View returns the user's staging list, draft and totals.
func (s *Service) View(ctx context.Context, userID string) (StagingView, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return StagingView{}, err
	}
	return StagingView{Items: engine.Items(), Draft: engine.Draft(), Totals: engine.Totals()}, nil
}

// AddLineItem stages a line item for the user.
func (s *Service) AddLineItem(ctx context.Context, userID string, req models.AddLineItemRequest) ([]models.TransferLineItem, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.AddLineItem(ctx, req.SkuID, req.Quantity, req.DestinationKind, req.DestinationID)
}

// RemoveLineItem removes a staged line item for the user.
func (s *Service) RemoveLineItem(ctx context.Context, userID string, index int) ([]models.TransferLineItem, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return nil, err
	}
	return engine.RemoveLineItem(index)
}

// Submit dispatches the user's staging list and records the attempt.
func (s *Service) Submit(ctx context.Context, userID string) (models.SubmissionResult, error) {
	engine, err := s.engine(ctx, userID)
	if err != nil {
		return models.SubmissionResult{}, err
	}

	result, err := engine.Submit(ctx)
	if result.ID != "" {
		s.record(ctx, userID, result)
	}
	return result, err
}

// SweepIdle drops staging sessions idle for longer than ttl.
func (s *Service) SweepIdle(ttl time.Duration) int {
	return s.sessions.SweepIdle(ttl)
}

func (s *Service) record(ctx context.Context, userID string, result models.SubmissionResult) {
	for _, r := range s.recorders {
		if err := r.Record(ctx, userID, result); err != nil {
			s.logger.Error("failed to record submission",
				zap.String("submission_id", result.ID),
				zap.String("user", userID),
				zap.Error(err))
		}
	}
}

func (s *Service) engine(ctx context.Context, userID string) (*staging.Engine, error) {
	if engine, ok := s.sessions.Get(userID); ok {
		return engine, nil
	}

	dir, err := s.loadDirectory(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := findUser(dir.Users, userID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUser, userID)
	}

	env := staging.Context{CurrentUser: user, Directory: dir}
	return s.sessions.GetOrCreate(userID, func() *staging.Engine {
		s.logger.Debug("staging session opened", zap.String("user", userID))
		return staging.NewEngine(env, s.backend, s.backend, s.logger.Named("engine").With(zap.String("user", userID)))
	}), nil
}

func (s *Service) loadDirectory(ctx context.Context) (staging.Directory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loadedAt.IsZero() && s.now().Sub(s.loadedAt) < s.ttl {
		return s.directory, nil
	}

	branches, err := s.backend.ListBranches(ctx)
	if err != nil {
		return staging.Directory{}, fmt.Errorf("load directory: %w", err)
	}
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return staging.Directory{}, fmt.Errorf("load directory: %w", err)
	}
	codes, err := s.backend.ListSkuCodes(ctx)
	if err != nil {
		return staging.Directory{}, fmt.Errorf("load directory: %w", err)
	}

	s.directory = staging.Directory{AllBranches: branches, Users: users, SkuCodes: codes}
	s.loadedAt = s.now()
	s.logger.Info("directory refreshed",
		zap.Int("branches", len(branches)),
		zap.Int("users", len(users)),
		zap.Int("sku_codes", len(codes)))
	return s.directory, nil
}

func findUser(users []models.User, id string) (models.User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
