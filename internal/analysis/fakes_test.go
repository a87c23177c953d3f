package analysis

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/types"
)

type memStore struct {
	mu         sync.Mutex
	skills     []types.Skill
	education  []types.Education
	experience []types.Experience
	resume     *types.Resume
	metrics    *types.Metrics
	skillsErr  error
	saveErr    error

	savedScores []types.Scores
	savedPlans  []*types.StudyPlan
	preference  string
}

func (m *memStore) Skills(context.Context, uuid.UUID) ([]types.Skill, error) {
	return m.skills, m.skillsErr
}

func (m *memStore) Education(context.Context, uuid.UUID) ([]types.Education, error) {
	return m.education, nil
}

func (m *memStore) Experience(context.Context, uuid.UUID) ([]types.Experience, error) {
	return m.experience, nil
}

func (m *memStore) LatestResume(context.Context, uuid.UUID) (*types.Resume, error) {
	return m.resume, nil
}

func (m *memStore) Metrics(context.Context, uuid.UUID) (*types.Metrics, error) {
	return m.metrics, nil
}

func (m *memStore) SaveMetrics(_ context.Context, _ uuid.UUID, scores types.Scores) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedScores = append(m.savedScores, scores)
	return nil
}

func (m *memStore) SaveStudyPlan(_ context.Context, _ uuid.UUID, plan *types.StudyPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedPlans = append(m.savedPlans, plan)
	return nil
}

func (m *memStore) SaveJobPreference(_ context.Context, _ uuid.UUID, jobTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.preference = jobTitle
	return nil
}

// memCache stores JSON so callers never share values with it.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) (*types.CareerAnalysis, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	data, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	c.hits++
	var a types.CareerAnalysis
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *memCache) Set(_ context.Context, key string, a *types.CareerAnalysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}
