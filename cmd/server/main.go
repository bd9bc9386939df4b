package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yukikurage/taskboard-api/internal/config"
	"github.com/yukikurage/taskboard-api/internal/database"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"github.com/yukikurage/taskboard-api/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "taskboard-api",
	Short:         "Task board REST API server",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations, ensure the seed admin and start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	RunE:  runMigrate,
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the seed admin account if it does not exist",
	RunE:  runSeedAdmin,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, nil, err
	}

	return cfg, logger, db, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.LogLevel == "debug" || cfg.GinMode == "debug" {
		zcfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}

	return zcfg.Build()
}

func migrate(db *gorm.DB, logger *zap.Logger) error {
	created, err := database.MigrateDatabase(db)
	if err != nil {
		return err
	}
	for _, name := range created {
		logger.Info("created index", zap.String("index", name))
	}
	return nil
}

func seedAdmin(cfg *config.Config, db *gorm.DB, logger *zap.Logger) error {
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(repository.NewUserRepository(db), tokens)

	created, err := authService.EnsureSeedAdmin(cfg.SeedAdminName, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	if created {
		logger.Info("seed admin created", zap.String("email", cfg.SeedAdminEmail))
	}
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := migrate(db, logger); err != nil {
		return err
	}
	logger.Info("migrations complete")
	return nil
}

func runSeedAdmin(cmd *cobra.Command, args []string) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if err := migrate(db, logger); err != nil {
		return err
	}
	return seedAdmin(cfg, db, logger)
}
