package analysis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/types"
)

var (
	// ErrRoleNotRecommended is returned when a study plan is requested for a
	// role that is not among the user's job recommendations.
	ErrRoleNotRecommended = errors.New("job role not found in recommendations")
	// ErrNoCachedScores is returned when no complete metrics record is stored.
	ErrNoCachedScores = errors.New("no cached scores for user")
	// ErrNotConfigured is returned when an operation needs a store that was not provided.
	ErrNotConfigured = errors.New("store not configured")
)

// MetricsWriter persists freshly computed scores. Concurrent writes for the
// same user are last-write-wins.
type MetricsWriter interface {
	SaveMetrics(ctx context.Context, userID uuid.UUID, scores types.Scores) error
}

// StudyPlanStore persists generated study plans, one per user and job title.
type StudyPlanStore interface {
	SaveStudyPlan(ctx context.Context, userID uuid.UUID, plan *types.StudyPlan) error
}

// PreferenceStore persists the user's target job role.
type PreferenceStore interface {
	SaveJobPreference(ctx context.Context, userID uuid.UUID, jobTitle string) error
}

// Cache stores analyses by snapshot fingerprint. Get returns nil, nil on a
// miss. Implementations must not retain the values passed in or returned.
type Cache interface {
	Get(ctx context.Context, key string) (*types.CareerAnalysis, error)
	Set(ctx context.Context, key string, analysis *types.CareerAnalysis) error
}

// AnalyzeOptions selects the score path and side effects of Service.Analyze.
type AnalyzeOptions struct {
	// UseCachedScores replaces the fresh scores with the last stored metrics
	// when both are present. Fresh scores are used otherwise.
	UseCachedScores bool
	// WriteBackMetrics stores the fresh scores. It has no effect when cached
	// scores were used.
	WriteBackMetrics bool
}

// Dependencies are the collaborators of a Service. Only Store and Engine are
// required.
type Dependencies struct {
	Store       profile.Store
	Engine      *Engine
	Metrics     MetricsWriter
	StudyPlans  StudyPlanStore
	Preferences PreferenceStore
	Cache       Cache
	Logger      *logging.Logger
}

// Service runs analyses for stored and caller-supplied profiles.
type Service struct {
	store       profile.Store
	aggregator  *profile.Aggregator
	engine      *Engine
	metrics     MetricsWriter
	studyPlans  StudyPlanStore
	preferences PreferenceStore
	cache       Cache
	logger      *logging.Logger
}

// NewService creates a Service.
func NewService(deps Dependencies) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{
		store:       deps.Store,
		aggregator:  profile.NewAggregator(deps.Store, deps.Engine.Catalog().CategoryFor, logger),
		engine:      deps.Engine,
		metrics:     deps.Metrics,
		studyPlans:  deps.StudyPlans,
		preferences: deps.Preferences,
		cache:       deps.Cache,
		logger:      logger,
	}
}

// Engine returns the underlying pure engine.
func (s *Service) Engine() *Engine {
	return s.engine
}

// Analyze runs the full pipeline for a stored user.
//
// Insufficient data is a normal outcome and returns (nil, nil). An error is
// returned only when the required skills read fails.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, opts AnalyzeOptions) (*types.CareerAnalysis, error) {
	p, err := s.aggregator.Aggregate(ctx, userID)
	if errors.Is(err, profile.ErrInsufficientData) {
		s.logger.Info("insufficient profile data", "user_id", userID.String())
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("aggregate profile: %w", err)
	}

	analysis := s.analyze(ctx, p)
	if analysis == nil {
		return nil, nil
	}

	if opts.UseCachedScores {
		// Reuse path: the last stored metrics replace the fresh scores.
		if cached, ok := scoring.FromMetrics(p.Metrics); ok {
			analysis.ResumeScore = cached.ResumeScore
			analysis.InterviewReadiness = cached.InterviewReadiness
			return analysis, nil
		}
	}

	// Compute path: the scores in analysis are fresh.
	if opts.WriteBackMetrics {
		s.writeBack(ctx, userID, types.Scores{
			ResumeScore:        analysis.ResumeScore,
			InterviewReadiness: analysis.InterviewReadiness,
		})
	}

	return analysis, nil
}

// AnalyzeProfile analyzes a caller-supplied snapshot. Nothing is read from or
// written to the profile store. Returns (nil, nil) when no usable skill remains.
func (s *Service) AnalyzeProfile(ctx context.Context, p *types.Profile) (*types.CareerAnalysis, error) {
	normalized, err := s.aggregator.Normalize(p)
	if errors.Is(err, profile.ErrInsufficientData) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.analyze(ctx, normalized), nil
}

// analyze returns the engine output for p, consulting the cache first.
func (s *Service) analyze(ctx context.Context, p *types.Profile) *types.CareerAnalysis {
	if s.cache == nil {
		return s.engine.Analyze(p)
	}

	key, err := s.cacheKey(p)
	if err != nil {
		s.logger.Warn("fingerprint failed, skipping cache", "error", err)
		return s.engine.Analyze(p)
	}

	if hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("analysis cache read failed", "error", err)
	} else if hit != nil {
		s.logger.Debug("analysis cache hit", "key", key)
		return hit
	}

	analysis := s.engine.Analyze(p)
	if analysis != nil {
		if err := s.cache.Set(ctx, key, analysis); err != nil {
			s.logger.Warn("analysis cache write failed", "error", err)
		}
	}
	return analysis
}

// cacheKey fingerprints the snapshot. The user ID and stored metrics do not
// influence engine output and are left out.
func (s *Service) cacheKey(p *types.Profile) (string, error) {
	snapshot := *p
	snapshot.UserID = uuid.Nil
	snapshot.Metrics = nil
	return Fingerprint(&snapshot, s.engine.Catalog().Version())
}

// writeBack stores fresh scores. A failure is logged and does not fail the
// analysis, since the profile store stays authoritative either way.
func (s *Service) writeBack(ctx context.Context, userID uuid.UUID, scores types.Scores) {
	if s.metrics == nil {
		s.logger.Debug("metrics write-back requested without a metrics writer")
		return
	}
	if err := s.metrics.SaveMetrics(ctx, userID, scores); err != nil {
		s.logger.Error("metrics write-back failed", "user_id", userID.String(), "error", err)
	}
}

// ComputeScores computes fresh scores for a stored user, optionally writing
// them back. It never reads stored metrics; see CachedScores.
func (s *Service) ComputeScores(ctx context.Context, userID uuid.UUID, writeBack bool) (*types.Scores, error) {
	p, err := s.aggregator.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	scores := scoring.Compute(p)
	if writeBack {
		s.writeBack(ctx, userID, scores)
	}
	return &scores, nil
}

// CachedScores returns the last stored scores without computing anything.
// Returns ErrNoCachedScores when no complete record exists.
func (s *Service) CachedScores(ctx context.Context, userID uuid.UUID) (*types.Scores, error) {
	m, err := s.store.Metrics(ctx, userID)
	if err != nil {
		return nil, &profile.FetchError{Source: "metrics", Cause: err}
	}
	scores, ok := scoring.FromMetrics(m)
	if !ok {
		return nil, ErrNoCachedScores
	}
	return &scores, nil
}

// StudyPlan builds and stores a study plan toward one of the user's
// recommended roles. The title must match a recommendation exactly.
func (s *Service) StudyPlan(ctx context.Context, userID uuid.UUID, jobTitle string) (*types.StudyPlan, error) {
	analysis, err := s.Analyze(ctx, userID, AnalyzeOptions{})
	if err != nil {
		return nil, err
	}
	if analysis == nil {
		return nil, profile.ErrInsufficientData
	}

	job := analysis.FindJob(jobTitle)
	if job == nil {
		return nil, ErrRoleNotRecommended
	}

	plan := BuildStudyPlan(job, analysis.CourseRecommendations)
	if s.studyPlans != nil {
		if err := s.studyPlans.SaveStudyPlan(ctx, userID, plan); err != nil {
			return nil, fmt.Errorf("save study plan: %w", err)
		}
	}

	s.logger.Info("study plan generated", "user_id", userID.String(), "job_title", jobTitle)
	return plan, nil
}

// SaveJobPreference records the user's target job role.
func (s *Service) SaveJobPreference(ctx context.Context, userID uuid.UUID, jobTitle string) error {
	if s.preferences == nil {
		return fmt.Errorf("job preferences: %w", ErrNotConfigured)
	}
	if err := s.preferences.SaveJobPreference(ctx, userID, jobTitle); err != nil {
		return fmt.Errorf("save job preference: %w", err)
	}
	return nil
}
