package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/types"
)

// isolateEnv clears every variable the config layer reads.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "SQLITE_PATH", "REDIS_ADDR", "CACHE_TTL", "AMQP_URL",
		"QUEUE_NAME", "CATALOG_DIR", "GEMINI_API_KEY", "PORT",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_MODE", "prod")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeFile(t *testing.T, name string, v any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	var data []byte
	switch b := v.(type) {
	case string:
		data = []byte(b)
	default:
		var err error
		data, err = json.Marshal(v)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func frontendProfile() types.Profile {
	return types.Profile{
		Skills: []types.Skill{
			{Name: "JavaScript", Level: 4},
			{Name: "React", Level: 4},
			{Name: "HTML", Level: 5},
			{Name: "CSS", Level: 4},
			{Name: "TypeScript", Level: 2},
		},
		Education:  []types.Education{{Institution: "A"}, {Institution: "B"}, {Institution: "C"}},
		Experience: []types.Experience{{Company: "X"}, {Company: "Y"}},
	}
}

type ctxKey struct{}

func TestBackground(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	assert.NotNil(t, background(cmd))

	ctx := context.WithValue(context.Background(), ctxKey{}, "set")
	cmd.SetContext(ctx)
	assert.Equal(t, "set", background(cmd).Value(ctxKey{}))
}

func TestAnalyze_ProfileFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "profile.json", frontendProfile())

	out, err := execute(t, "analyze", "--profile", path)
	require.NoError(t, err)

	var got types.CareerAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	job := got.FindJob("Frontend Developer")
	require.NotNil(t, job)
	assert.Equal(t, 100, job.MatchScore)
	assert.Equal(t, 79, got.ResumeScore)
}

func TestAnalyze_OutFile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "profile.json", frontendProfile())
	outPath := filepath.Join(t.TempDir(), "analysis.json")

	out, err := execute(t, "analyze", "--profile", path, "--out", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestAnalyze_TextFormat(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "profile.json", frontendProfile())

	out, err := execute(t, "analyze", "--profile", path, "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "SCORES")
	assert.Contains(t, out, "79 / 100")
	assert.Contains(t, out, "JOB RECOMMENDATIONS")
	assert.False(t, json.Valid([]byte(out)))

	_, err = execute(t, "analyze", "--profile", path, "--format", "yaml")
	assert.ErrorContains(t, err, "unsupported output format")
}

func TestAnalyze_InsufficientData(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "profile.json", `{"skills": []}`)

	_, err := execute(t, "analyze", "--profile", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, profile.ErrInsufficientData)
	assert.Contains(t, err.Error(), profile.InsufficientDataMessage)
}

func TestAnalyze_InvalidProfile(t *testing.T) {
	isolateEnv(t)
	path := writeFile(t, "profile.json", `{"skills": [{"name": "Go", "level": 9}]}`)

	_, err := execute(t, "analyze", "--profile", path)
	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestAnalyze_FlagErrors(t *testing.T) {
	isolateEnv(t)

	_, err := execute(t, "analyze")
	assert.ErrorContains(t, err, "exactly one of --user or --profile")

	_, err = execute(t, "analyze", "--user", uuid.NewString(), "--profile", "p.json")
	assert.ErrorContains(t, err, "exactly one of --user or --profile")

	_, err = execute(t, "analyze", "--user", "not-a-uuid")
	assert.ErrorContains(t, err, "invalid user ID")

	_, err = execute(t, "analyze", "--user", uuid.NewString())
	assert.ErrorIs(t, err, errNoStore)
}

func TestImportAnalyzeAndScores_SQLite(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "career.db")
	profilePath := writeFile(t, "profile.json", frontendProfile())
	userID := uuid.NewString()

	out, err := execute(t, "import", "--sqlite", dbPath, "--user", userID, "--profile", profilePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"`+userID+`"}`, out)

	out, err = execute(t, "scores", "--sqlite", dbPath, "--user", userID, "--cached")
	require.Error(t, err, out)

	out, err = execute(t, "analyze", "--sqlite", dbPath, "--user", userID, "--write-back")
	require.NoError(t, err)
	var got types.CareerAnalysis
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.NotNil(t, got.FindJob("Frontend Developer"))

	out, err = execute(t, "scores", "--sqlite", dbPath, "--user", userID, "--cached")
	require.NoError(t, err)
	var cached types.Scores
	require.NoError(t, json.Unmarshal([]byte(out), &cached))
	assert.Equal(t, types.Scores{ResumeScore: got.ResumeScore, InterviewReadiness: got.InterviewReadiness}, cached)
}

func TestStudyPlan_SQLite(t *testing.T) {
	isolateEnv(t)
	dbPath := filepath.Join(t.TempDir(), "career.db")
	t.Setenv("SQLITE_PATH", dbPath)
	profilePath := writeFile(t, "profile.json", frontendProfile())
	userID := uuid.NewString()

	_, err := execute(t, "import", "--user", userID, "--profile", profilePath)
	require.NoError(t, err)

	out, err := execute(t, "study-plan", "--user", userID, "--job", "Frontend Developer")
	require.NoError(t, err)
	var plan types.StudyPlan
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "Frontend Developer", plan.JobTitle)

	out, err = execute(t, "study-plan", "--user", userID, "--job", "Frontend Developer", "--format", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "STUDY PLAN")
	assert.Contains(t, out, "Frontend Developer (")

	_, err = execute(t, "study-plan", "--user", userID, "--job", "Astronaut")
	assert.Error(t, err)
}

func TestImport_RequiresSQLite(t *testing.T) {
	isolateEnv(t)
	profilePath := writeFile(t, "profile.json", frontendProfile())

	_, err := execute(t, "import", "--profile", profilePath)
	assert.ErrorIs(t, err, errNoStore)
}

func TestScoreResume(t *testing.T) {
	isolateEnv(t)
	resume := types.Resume{
		ContactInfo: types.ContactInfo{Name: "Ada", Email: "ada@example.com"},
		Summary:     "Engineer",
	}
	path := writeFile(t, "resume.json", resume)

	out, err := execute(t, "score-resume", "--resume", path)
	require.NoError(t, err)

	var got scoring.ResumeBreakdown
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, scoring.ResumeScore(&resume), got)

	_, err = execute(t, "score-resume")
	assert.ErrorContains(t, err, "required")
}

func TestCatalogValidate(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "catalog", "validate")
	require.NoError(t, err)
	var summary catalogSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, "embedded", summary.Source)
	assert.NotEmpty(t, summary.Version)
	assert.Positive(t, summary.Roles)
	assert.Positive(t, summary.DemandSkills)
	assert.Positive(t, summary.Courses)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "demand.json"), []byte(`[{"name": "Go"}]`), 0o644))
	_, err = execute(t, "catalog", "validate", "--dir", dir)
	assert.Error(t, err)
}

func TestCatalogSchema(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "catalog", "schema", schemas.Resume)
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))

	_, err = execute(t, "catalog", "schema", "nope")
	assert.ErrorContains(t, err, "unknown schema")
}

func TestResolve_Precedence(t *testing.T) {
	isolateEnv(t)
	configPath := writeFile(t, "config.json", `{"sqlite_path": "from-file.db", "redis_addr": "file:6379", "port": 9000}`)
	t.Setenv("REDIS_ADDR", "env:6379")

	opts := &rootOptions{configPath: configPath, sqlitePath: "from-flag.db"}
	cfg, err := opts.resolve()
	require.NoError(t, err)

	assert.Equal(t, "from-flag.db", cfg.SQLitePath)
	assert.Equal(t, "env:6379", cfg.RedisAddr)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "career_analysis", cfg.QueueName)
}

func TestResolve_InvalidConfig(t *testing.T) {
	isolateEnv(t)

	_, err := (&rootOptions{logMode: "loud"}).resolve()
	assert.ErrorContains(t, err, "log_mode")
}

func TestWorker_RequiresAMQP(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "career.db"))

	_, err := execute(t, "worker")
	assert.ErrorContains(t, err, "AMQP_URL")
}

func TestAsk_RequiresAPIKey(t *testing.T) {
	isolateEnv(t)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "career.db"))

	_, err := execute(t, "ask", "--user", uuid.NewString(), "--question", "What next?")
	assert.ErrorContains(t, err, "GEMINI_API_KEY")
}
