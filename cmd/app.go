package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/auth"
	"github.com/frahmantamala/order-admin/internal/collection"
	collectionPostgres "github.com/frahmantamala/order-admin/internal/collection/postgres"
	"github.com/frahmantamala/order-admin/internal/core/events"
	"github.com/frahmantamala/order-admin/internal/lookup"
	"github.com/frahmantamala/order-admin/internal/order"
	"github.com/frahmantamala/order-admin/internal/user"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App holds the wired services shared by the server and the seed command.
type App struct {
	Config  *internal.Config
	Logger  *slog.Logger
	DB      *gorm.DB // nil for the file driver
	Backend collection.Backend

	Users  *collection.Store[user.User]
	Orders *collection.Store[order.Order]

	EventBus      *events.EventBus
	UserService   *user.Service
	OrderService  *order.Service
	LookupService *lookup.Service
	AuthService   *auth.Service
	Hasher        *auth.BcryptHasher
}

func newApp(cfg *internal.Config, lg *slog.Logger) (*App, error) {
	backend, db, err := openBackend(cfg.Storage)
	if err != nil {
		return nil, err
	}

	users := collection.NewStore[user.User](cfg.Storage.Users, backend, lg).UniqueBy(user.SameUsername)
	orders := collection.NewStore[order.Order](cfg.Storage.Orders, backend, lg)

	bus := events.NewEventBus(lg)
	bus.SubscribeAll(events.RecordEventTypes, events.AuditHandler(lg))

	hasher := auth.NewBcryptHasher(cfg.Security.BCryptCost)
	lookupService := lookup.NewService(lookup.DefaultCatalog(), lg)
	userService := user.NewService(users, hasher, bus, lg)
	orderService := order.NewService(orders, bus, lg).WithCompanyDirectory(lookupService)
	tokens := auth.NewJWTTokenGenerator(cfg.Security.SessionSecret, cfg.Security.SessionTTL)

	return &App{
		Config:        cfg,
		Logger:        lg,
		DB:            db,
		Backend:       backend,
		Users:         users,
		Orders:        orders,
		EventBus:      bus,
		UserService:   userService,
		OrderService:  orderService,
		LookupService: lookupService,
		AuthService:   auth.NewService(userService, hasher, tokens, lg),
		Hasher:        hasher,
	}, nil
}

// openBackend picks where collection documents live.
func openBackend(cfg internal.StorageConfig) (collection.Backend, *gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case internal.StorageDriverFile:
		return collection.NewFileBackend(cfg.DataDir), nil, nil
	case internal.StorageDriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case internal.StorageDriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.Driver == internal.StorageDriverSQLite {
		// sqlite allows one writer; the stores already serialize writes
		sqlDB.SetMaxOpenConns(1)
	}

	ctx, cancel := internal.WithTimeout(context.Background(), cfg.OpTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// postgres schemas come from the goose migrations
	if cfg.Driver == internal.StorageDriverSQLite {
		if err := collectionPostgres.AutoMigrate(db); err != nil {
			sqlDB.Close()
			return nil, nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return collectionPostgres.NewDocumentBackend(db), db, nil
}

func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
