package app

import (
	"context"
	"fmt"

	"github.com/upb/claims-audit/config"
	"github.com/upb/claims-audit/observability"
	"github.com/upb/claims-audit/repositories"
	"github.com/upb/claims-audit/repositories/cosmos"
	"github.com/upb/claims-audit/repositories/memory"
	"github.com/upb/claims-audit/repositories/postgres"
	"github.com/upb/claims-audit/services/audit"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// Storage
	AuditRecords repositories.AuditRecordRepository

	// Services
	AuditService *audit.Service
}

// NewDependencies creates and wires up all application dependencies.
// The storage client is created once here and shared by every request.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Observability.MetricsEnabled {
		deps.Metrics = observability.New()
	}

	if err := deps.initStorage(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	opts := []audit.Option{}
	if deps.Metrics != nil {
		opts = append(opts, audit.WithMetrics(deps.Metrics))
	}
	deps.AuditService = audit.NewService(deps.AuditRecords, cfg.Environment, logger, opts...)

	logger.Info("all dependencies initialized successfully",
		zap.String("storage_backend", cfg.StorageBackend))
	return deps, nil
}

// initStorage connects the configured storage backend
func (d *Dependencies) initStorage(ctx context.Context, cfg *config.Config) error {
	switch cfg.StorageBackend {
	case config.StorageCosmos:
		client, err := cosmos.NewClient(cfg.Cosmos, d.Logger)
		if err != nil {
			return err
		}
		if err := client.EnsureResources(ctx); err != nil {
			return err
		}
		d.AuditRecords = client.AuditRepository()

	case config.StoragePostgres:
		db, err := postgres.NewDB(ctx, cfg.Database, d.Logger)
		if err != nil {
			return err
		}
		if err := db.InitSchema(ctx); err != nil {
			_ = db.Close()
			return err
		}
		d.AuditRecords = postgres.NewAuditRepository(db, d.Logger)

	case config.StorageMemory:
		d.Logger.Warn("using in-memory storage, records are not persisted")
		d.AuditRecords = memory.NewAuditRepository()

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.AuditRecords != nil {
		if err := d.AuditRecords.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		} else {
			d.Logger.Info("storage connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
