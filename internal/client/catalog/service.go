// Package catalog fetches the problem catalog and user profiles from the
// archive API, with an in-process cache and a durable backup tier.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	httpClient "github.com/iudanet/cfhelper/internal/client/api"
	"github.com/iudanet/cfhelper/internal/models"
	"github.com/iudanet/cfhelper/internal/validation"
	pkgapi "github.com/iudanet/cfhelper/pkg/api"
)

var (
	// ErrFetch означает, что данные не удалось получить ни из одного источника
	ErrFetch = errors.New("failed to fetch data")

	// ErrUserNotFound означает, что архив не знает такого handle
	ErrUserNotFound = errors.New("user not found")
)

// Source откуда был получен каталог
type Source string

const (
	SourceNone   Source = ""
	SourceRemote Source = "remote"
	SourceMemory Source = "memory"
	SourceBackup Source = "backup"
)

// ArchiveClient is the part of the archive API the service needs
type ArchiveClient interface {
	GetProblemset(ctx context.Context) (*pkgapi.ProblemsetResult, error)
	GetContests(ctx context.Context) ([]pkgapi.Contest, error)
	GetUserInfo(ctx context.Context, handle string) (*pkgapi.User, error)
	GetUserStatus(ctx context.Context, handle string) ([]pkgapi.Submission, error)
}

var _ ArchiveClient = (*httpClient.Client)(nil)

// BackupStore persists the durable catalog snapshot
type BackupStore interface {
	LoadBackup(ctx context.Context) (*models.CachedCatalog, bool)
	SaveBackup(ctx context.Context, catalog *models.CachedCatalog) error
	ClearBackup(ctx context.Context) error
}

// Config contains service timings
type Config struct {
	// Freshness is how long the in-process cache is served without a fetch
	Freshness time.Duration

	CatalogTimeout     time.Duration
	ProfileTimeout     time.Duration
	SubmissionsTimeout time.Duration
	ContestsTimeout    time.Duration

	// Now returns the current time; tests replace it
	Now func() time.Time

	Logger *slog.Logger
}

// DefaultConfig returns the default timings
func DefaultConfig() Config {
	return Config{
		Freshness:          30 * time.Minute,
		CatalogTimeout:     30 * time.Second,
		ProfileTimeout:     10 * time.Second,
		SubmissionsTimeout: 15 * time.Second,
		ContestsTimeout:    15 * time.Second,
		Now:                time.Now,
	}
}

// CacheInfo describes the catalog currently held in memory
type CacheInfo struct {
	Present   bool
	FetchedAt time.Time
	Size      int
	Fresh     bool
	Source    Source // источник последней выдачи каталога
}

// Service provides access to the catalog and user profiles
type Service struct {
	client ArchiveClient
	backup BackupStore
	cache  *Cache
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	lastSource Source
}

// NewService creates a new catalog service. backup may be nil.
func NewService(client ArchiveClient, backup BackupStore, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.Freshness <= 0 {
		cfg.Freshness = defaults.Freshness
	}
	if cfg.CatalogTimeout <= 0 {
		cfg.CatalogTimeout = defaults.CatalogTimeout
	}
	if cfg.ProfileTimeout <= 0 {
		cfg.ProfileTimeout = defaults.ProfileTimeout
	}
	if cfg.SubmissionsTimeout <= 0 {
		cfg.SubmissionsTimeout = defaults.SubmissionsTimeout
	}
	if cfg.ContestsTimeout <= 0 {
		cfg.ContestsTimeout = defaults.ContestsTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Service{
		client: client,
		backup: backup,
		cache:  &Cache{},
		cfg:    cfg,
		logger: cfg.Logger,
	}
}

// GetCatalog returns the problem catalog.
//
// A fresh in-process cache is returned without touching the network.
// Otherwise the catalog is fetched; if that fails the in-process cache
// (even stale) and then the durable backup are used. ErrFetch is returned
// only when no tier has data.
func (s *Service) GetCatalog(ctx context.Context) ([]models.Problem, error) {
	if s.cache.Fresh(s.cfg.Now(), s.cfg.Freshness) {
		problems, _, _ := s.cache.Get()
		s.setSource(SourceMemory)
		return problems, nil
	}
	return s.fetchCatalog(ctx)
}

// Refresh fetches the catalog ignoring the freshness window.
// Fallback tiers behave as in GetCatalog.
func (s *Service) Refresh(ctx context.Context) ([]models.Problem, error) {
	return s.fetchCatalog(ctx)
}

func (s *Service) fetchCatalog(ctx context.Context) ([]models.Problem, error) {
	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)

	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.CatalogTimeout)
	defer cancel()

	logger.Debug("Fetching problem catalog")
	result, err := s.client.GetProblemset(fetchCtx)
	if err != nil {
		return s.fallback(ctx, logger, err)
	}

	problems, dropped := Normalize(result.Problems)
	if dropped > 0 {
		logger.Debug("Dropped malformed problems", "count", dropped)
	}

	fetchedAt := s.cfg.Now()
	s.cache.Set(problems, fetchedAt)
	s.setSource(SourceRemote)
	logger.Info("Problem catalog fetched", "problems", len(problems))

	// Резервная копия пишется best-effort
	if s.backup != nil {
		snapshot := &models.CachedCatalog{Problems: problems, FetchedAt: fetchedAt}
		if err := s.backup.SaveBackup(ctx, snapshot); err != nil {
			logger.Warn("Failed to write catalog backup", "error", err)
		}
	}

	return problems, nil
}

// fallback отдает данные из кэша или резервной копии после неудачного запроса
func (s *Service) fallback(ctx context.Context, logger *slog.Logger, cause error) ([]models.Problem, error) {
	if problems, fetchedAt, ok := s.cache.Get(); ok {
		logger.Warn("Catalog fetch failed, serving in-memory cache",
			"error", cause,
			"fetched_at", fetchedAt)
		s.setSource(SourceMemory)
		return problems, nil
	}

	if s.backup != nil {
		if snapshot, ok := s.backup.LoadBackup(ctx); ok {
			logger.Warn("Catalog fetch failed, serving durable backup",
				"error", cause,
				"fetched_at", snapshot.FetchedAt,
				"problems", len(snapshot.Problems))
			s.setSource(SourceBackup)
			return snapshot.Problems, nil
		}
	}

	logger.Error("Catalog fetch failed, no cached data", "error", cause)
	s.setSource(SourceNone)
	return nil, fmt.Errorf("%w: %w", ErrFetch, cause)
}

// CacheInfo describes the in-process cache
func (s *Service) CacheInfo() CacheInfo {
	problems, fetchedAt, ok := s.cache.Get()
	return CacheInfo{
		Present:   ok,
		FetchedAt: fetchedAt,
		Size:      len(problems),
		Fresh:     s.cache.Fresh(s.cfg.Now(), s.cfg.Freshness),
		Source:    s.source(),
	}
}

// ClearCache drops both the in-process cache and the durable backup
func (s *Service) ClearCache(ctx context.Context) error {
	s.cache.Clear()
	s.setSource(SourceNone)
	if s.backup == nil {
		return nil
	}
	return s.backup.ClearBackup(ctx)
}

// Contests returns the contest listing
func (s *Service) Contests(ctx context.Context) ([]pkgapi.Contest, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.ContestsTimeout)
	defer cancel()

	contests, err := s.client.GetContests(fetchCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	return contests, nil
}

// GetUserProfile looks up a public profile and derives solved data from
// the submission history. Profile and submissions are fetched concurrently;
// a failed submissions fetch leaves solved data empty instead of failing.
func (s *Service) GetUserProfile(ctx context.Context, handle string) (*models.UserProfile, error) {
	handle, err := validation.NormalizeHandle(handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUserNotFound, err)
	}

	logger := s.logger.With("request_id", uuid.NewString(), "handle", handle)

	var (
		user        *pkgapi.User
		submissions []pkgapi.Submission
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		infoCtx, cancel := context.WithTimeout(gctx, s.cfg.ProfileTimeout)
		defer cancel()

		u, err := s.client.GetUserInfo(infoCtx, handle)
		if err != nil {
			return err
		}
		user = u
		return nil
	})

	g.Go(func() error {
		statusCtx, cancel := context.WithTimeout(gctx, s.cfg.SubmissionsTimeout)
		defer cancel()

		subs, err := s.client.GetUserStatus(statusCtx, handle)
		if err != nil {
			// История посылок не обязательна для профиля
			logger.Warn("Failed to fetch submissions, solved data left empty", "error", err)
			return nil
		}
		submissions = subs
		return nil
	})

	if err := g.Wait(); err != nil {
		if httpClient.IsHandleNotFound(err) {
			logger.Info("Handle not found")
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, handle)
		}
		logger.Error("Profile lookup failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	solved, tags := ExtractSolved(submissions)
	profile := &models.UserProfile{
		Handle:         user.Handle,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Rating:         user.Rating,
		MaxRating:      user.MaxRating,
		Rank:           user.Rank,
		MaxRank:        user.MaxRank,
		Country:        user.Country,
		Organization:   user.Organization,
		Contribution:   user.Contribution,
		Avatar:         user.Avatar,
		SolvedProblems: solved,
		SolvedTags:     tags,
		FetchedAt:      s.cfg.Now(),
	}

	logger.Info("Profile fetched", "solved", len(solved), "submissions", len(submissions))
	return profile, nil
}

func (s *Service) setSource(src Source) {
	s.mu.Lock()
	s.lastSource = src
	s.mu.Unlock()
}

func (s *Service) source() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSource
}
