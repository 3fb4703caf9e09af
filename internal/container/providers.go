package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/dispatcher"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/service"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/event"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/cache"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/export"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/external/tally"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/persistence/repository"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/persistence/sqlite"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/storage"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/worker"
	"github.com/Harshit2783/tally-integrated-pos-system/pkg/database"
	"github.com/Harshit2783/tally-integrated-pos-system/pkg/utils"
)

// DatabaseBundle holds database-related components.
type DatabaseBundle struct {
	DB             *database.DB
	TransactionMgr *sqlite.DB
}

// LedgerBundle holds the ledger client and the gateway built on it.
type LedgerBundle struct {
	Client  *tally.Client
	Gateway port.LedgerGateway
}

// StorageBundle holds cache and export components.
type StorageBundle struct {
	Cache    port.SnapshotCache
	Exporter *export.StockReportWriter

	// FileStorage is nil when no export directory is configured
	FileStorage port.FileStorage
}

// ProvideDatabase opens the database and applies the embedded migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*DatabaseBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).Run(sqlite.Migrations, sqlite.MigrationsDir); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DatabaseBundle{
		DB:             db,
		TransactionMgr: sqlite.NewDB(db.DB, logger),
	}, nil
}

// ProvideRepositories creates all repositories from a database connection.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &RepositoryBundle{
		SyncRun: repository.NewSyncRunRepository(db.DB, logger),
		Stock:   repository.NewStockSnapshotRepository(db.DB, logger),
	}, nil
}

// ProvideLedger creates the ledger endpoint client and gateway.
func ProvideLedger(cfg *LedgerConfig, logger *zap.Logger) (*LedgerBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ledger config is required")
	}
	if err := utils.ValidateEndpoint(cfg.Endpoint); err != nil {
		return nil, err
	}

	client := tally.NewClient(tally.ClientConfig{
		Endpoint:      cfg.Endpoint,
		Timeout:       cfg.Timeout,
		MaxAttempts:   cfg.MaxAttempts,
		RetryBackoff:  cfg.RetryBackoff,
		RatePerSecond: cfg.RatePerSecond,
		Burst:         cfg.Burst,
	}, logger.Named("ledger"))

	return &LedgerBundle{
		Client:  client,
		Gateway: tally.NewGateway(client, logger.Named("ledger")),
	}, nil
}

// ProvideStorage creates the snapshot cache, report writer and, when an
// export directory is configured, the archive storage.
func ProvideStorage(cfg *StorageConfig, logger *zap.Logger) (*StorageBundle, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage config is required")
	}

	bundle := &StorageBundle{
		Cache:    cache.NewSnapshotCache(cfg.CacheTTL),
		Exporter: export.NewStockReportWriter(logger.Named("export")),
	}
	if cfg.ExportDir != "" {
		bundle.FileStorage = storage.NewLocalFileStorage(cfg.ExportDir, logger.Named("storage"))
	}
	return bundle, nil
}

// ProvideDispatcher creates the event dispatcher.
func ProvideDispatcher(logger *zap.Logger) dispatcher.Dispatcher {
	return dispatcher.NewDispatcher(dispatcher.WithLogger(utils.NewKVLogger(logger.Named("events"))))
}

// ServiceDeps holds dependencies required for creating services.
type ServiceDeps struct {
	Repos          *RepositoryBundle
	TxManager      port.TransactionManager
	Gateway        port.LedgerGateway
	Cache          port.SnapshotCache
	Events         service.EventPublisher
	DefaultCompany string
	Logger         *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("service dependencies are required")
	}

	serviceLogger := utils.NewKVLogger(deps.Logger.Named("service"))

	stock := service.NewStockSyncService(
		deps.Gateway,
		deps.Repos.SyncRun,
		deps.Repos.Stock,
		deps.TxManager,
		deps.Cache,
		deps.Events,
		deps.DefaultCompany,
		serviceLogger,
	)

	return &ServiceBundle{
		Stock:   stock,
		Billing: service.NewBillingService(stock, deps.Events, serviceLogger),
	}, nil
}

// RegisterHandlers subscribes the event handlers. The export archive is
// only wired when storage has a file store.
func RegisterHandlers(d dispatcher.Dispatcher, services *ServiceBundle, storage *StorageBundle, logger *zap.Logger) {
	if storage.FileStorage != nil {
		d.SubscribeNamed(event.TypeStockSynced, "stock-report-archive",
			export.NewSyncedHandler(services.Stock, storage.Exporter, storage.FileStorage, logger.Named("export")))
	}
}

// ProvideWorkers creates the worker manager and registers the scheduled
// sync when an interval is configured.
func ProvideWorkers(cfg *WorkerConfig, company string, syncer worker.Syncer, logger *zap.Logger) *worker.WorkerManager {
	manager := worker.NewWorkerManager(logger.Named("worker"))
	if cfg.SyncInterval > 0 {
		manager.Register(worker.NewSyncWorker(worker.SyncWorkerConfig{
			Company:     company,
			Interval:    cfg.SyncInterval,
			SyncTimeout: cfg.SyncTimeout,
			RunOnStart:  cfg.RunOnStart,
		}, syncer, logger.Named("worker")))
	}
	return manager
}
