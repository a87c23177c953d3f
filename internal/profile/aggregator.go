// Package profile assembles a normalized profile snapshot from the profile store.
package profile

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-guide/internal/logging"
	"github.com/jonathan/career-guide/internal/skills"
	"github.com/jonathan/career-guide/internal/types"
)

// Store is read access to the raw profile records of one user.
// Implementations return empty slices or nil (not an error) for absent data.
type Store interface {
	Skills(ctx context.Context, userID uuid.UUID) ([]types.Skill, error)
	Education(ctx context.Context, userID uuid.UUID) ([]types.Education, error)
	Experience(ctx context.Context, userID uuid.UUID) ([]types.Experience, error)
	LatestResume(ctx context.Context, userID uuid.UUID) (*types.Resume, error)
	Metrics(ctx context.Context, userID uuid.UUID) (*types.Metrics, error)
}

// Aggregator reads and normalizes profile snapshots.
type Aggregator struct {
	store  Store
	lookup skills.CategoryLookup
	logger *logging.Logger
}

// NewAggregator creates an Aggregator. lookup fills in missing skill categories.
func NewAggregator(store Store, lookup skills.CategoryLookup, logger *logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Aggregator{store: store, lookup: lookup, logger: logger}
}

// Aggregate builds the snapshot for userID for analysis.
//
// The skills read is required: its failure is returned as a *FetchError, and
// an empty skill set returns ErrInsufficientData. Education, experience,
// resume and metrics are optional; they are read concurrently and a failed
// read is logged and treated as absent.
func (a *Aggregator) Aggregate(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	p, err := a.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(p.Skills) == 0 {
		return nil, ErrInsufficientData
	}
	return p, nil
}

// Load builds the snapshot for userID like Aggregate but accepts an empty
// skill set. Scoring uses it since both scores are defined without skills.
func (a *Aggregator) Load(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	rawSkills, err := a.store.Skills(ctx, userID)
	if err != nil {
		return nil, &FetchError{Source: "skills", Cause: err}
	}

	userSkills := skills.Normalize(rawSkills, a.lookup)
	p := &types.Profile{UserID: userID, Skills: userSkills}
	log := a.logger.With("user_id", userID.String())

	// Each branch writes a distinct field, so no locking is needed.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		education, err := a.store.Education(gCtx, userID)
		if err != nil {
			log.Warn("optional profile read failed", "source", "education", "error", err)
			return nil
		}
		p.Education = education
		return nil
	})
	g.Go(func() error {
		experience, err := a.store.Experience(gCtx, userID)
		if err != nil {
			log.Warn("optional profile read failed", "source", "experience", "error", err)
			return nil
		}
		p.Experience = experience
		return nil
	})
	g.Go(func() error {
		resume, err := a.store.LatestResume(gCtx, userID)
		if err != nil {
			log.Warn("optional profile read failed", "source", "resume", "error", err)
			return nil
		}
		p.Resume = resume
		return nil
	})
	g.Go(func() error {
		metrics, err := a.store.Metrics(gCtx, userID)
		if err != nil {
			log.Warn("optional profile read failed", "source", "metrics", "error", err)
			return nil
		}
		p.Metrics = metrics
		return nil
	})
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p, nil
}

// Normalize prepares a caller-supplied snapshot the same way Aggregate
// prepares a stored one. The input is not modified.
func (a *Aggregator) Normalize(p *types.Profile) (*types.Profile, error) {
	return Normalize(p, a.lookup)
}

// Normalize returns a copy of p with normalized skills, or
// ErrInsufficientData when no usable skill remains.
func Normalize(p *types.Profile, lookup skills.CategoryLookup) (*types.Profile, error) {
	if p == nil {
		return nil, ErrInsufficientData
	}
	out := *p
	out.Skills = skills.Normalize(p.Skills, lookup)
	if len(out.Skills) == 0 {
		return nil, ErrInsufficientData
	}
	return &out, nil
}
