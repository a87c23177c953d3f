package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/career-guide/internal/config"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath  string
	databaseURL string
	sqlitePath  string
	redisAddr   string
	catalogDir  string
	logMode     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "career_agent",
		Short:         "Career Guide recommendation and scoring engine",
		Long:          "Career Guide analyzes a user's skills, education and experience against market demand and role catalogs, producing skill gaps, job and course recommendations, resume scores and study plans.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a JSON config file")
	flags.StringVar(&opts.databaseURL, "db-url", "", "PostgreSQL URL (overrides DATABASE_URL)")
	flags.StringVar(&opts.sqlitePath, "sqlite", "", "SQLite database file used when no PostgreSQL URL is set (overrides SQLITE_PATH)")
	flags.StringVar(&opts.redisAddr, "redis", "", "Redis address for the analysis cache (overrides REDIS_ADDR)")
	flags.StringVar(&opts.catalogDir, "catalog-dir", "", "Directory with demand, roles, courses and categories JSON (overrides CATALOG_DIR)")
	flags.StringVar(&opts.logMode, "log-mode", "", `Log mode: "dev" or "prod" (overrides LOG_MODE)`)

	cmd.AddCommand(
		newServeCmd(opts),
		newWorkerCmd(opts),
		newAnalyzeCmd(opts),
		newScoresCmd(opts),
		newScoreResumeCmd(opts),
		newStudyPlanCmd(opts),
		newAskCmd(opts),
		newImportCmd(opts),
		newCatalogCmd(opts),
	)
	return cmd
}

// resolve builds the effective configuration: file, then environment, then
// flags, then defaults.
func (o *rootOptions) resolve() (config.Config, error) {
	base := &config.Config{}
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		base = loaded
	}

	cfg := base.FromEnv()
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.DatabaseURL, o.databaseURL)
	override(&cfg.SQLitePath, o.sqlitePath)
	override(&cfg.RedisAddr, o.redisAddr)
	override(&cfg.CatalogDir, o.catalogDir)
	override(&cfg.LogMode, o.logMode)

	cfg = cfg.MergeWithDefaults(config.Config{})
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
