package setup

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/LavaJover/voltz-checkout-service/internal/config"
	"github.com/LavaJover/voltz-checkout-service/internal/domain"
	publisher "github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kafka"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/kvstore"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/memstore"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/metrics"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/migrate"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/postgres"
	"github.com/LavaJover/voltz-checkout-service/internal/infrastructure/postgres/repository"
)

// Dependencies are the process-wide backends. Every optional backend falls
// back to an in-memory one when it is not configured.
type Dependencies struct {
	Config     *config.CheckoutConfig
	Log        *zap.Logger
	InstanceID string

	DB         *gorm.DB
	Redis      *redis.Client
	StoreRepo  domain.StoreRepository
	KV         domain.KeyValueStore
	Sessions   domain.KeyValueStore
	Publisher  *publisher.DefaultKafkaPublisher
	Subscriber *publisher.DefaultKafkaSubscriber
	Registry   *prometheus.Registry
	Metrics    *metrics.CheckoutMetrics
}

func InitializeDependencies(ctx context.Context, cfg *config.CheckoutConfig, log *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:     cfg,
		Log:        log,
		InstanceID: uuid.NewString(),
		Registry:   prometheus.NewRegistry(),
	}
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.NewCheckoutMetrics(deps.Registry)

	if err := deps.initStoreRepo(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("store repository: %w", err)
	}
	if err := deps.initKV(ctx); err != nil {
		deps.Close()
		return nil, fmt.Errorf("key-value store: %w", err)
	}
	if err := deps.initKafka(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("kafka: %w", err)
	}
	return deps, nil
}

func (d *Dependencies) initStoreRepo() error {
	if d.Config.StoreDB.Dsn == "" {
		d.Log.Warn("store_db.dsn is empty, stores are kept in memory")
		d.StoreRepo = memstore.NewStoreRepository()
		return nil
	}

	db, err := postgres.InitDB(d.Config)
	if err != nil {
		return err
	}
	d.DB = db
	if err := migrate.RunMigrations(db, d.Config.StoreDB.MigrationsPath); err != nil {
		return err
	}
	d.StoreRepo = repository.NewDefaultStoreRepository(db)
	return nil
}

func (d *Dependencies) initKV(ctx context.Context) error {
	if d.Config.Redis.Addr == "" {
		d.Log.Warn("redis.addr is empty, durable and session state are kept in memory")
		d.KV = kvstore.NewMemoryStore()
		d.Sessions = kvstore.NewMemoryStore()
		return nil
	}

	client, err := kvstore.NewRedisClient(ctx, kvstore.RedisConfig{
		Addr:     d.Config.Redis.Addr,
		Password: d.Config.Redis.Password,
		DB:       d.Config.Redis.DB,
	})
	if err != nil {
		return err
	}
	d.Redis = client
	d.KV = kvstore.WithPrefix(kvstore.NewRedisStore(client, 0), "checkout")
	d.Sessions = kvstore.WithPrefix(kvstore.NewRedisStore(client, d.Config.Redis.SessionTTL), "checkout-session")
	return nil
}

func (d *Dependencies) initKafka() error {
	if len(d.Config.Kafka.Brokers) == 0 {
		d.Log.Warn("kafka.brokers is empty, events stay in process")
		return nil
	}

	pub, err := publisher.NewDefaultKafkaPublisher(publisher.KafkaConfig{
		Brokers:    d.Config.Kafka.Brokers,
		Username:   d.Config.Kafka.Username,
		Password:   d.Config.Kafka.Password,
		Mechanism:  d.Config.Kafka.Mechanism,
		TLSEnabled: d.Config.Kafka.TLSEnabled,
	})
	if err != nil {
		return err
	}
	d.Publisher = pub
	d.Subscriber = publisher.NewDefaultKafkaSubscriber(d.Config.Kafka.Brokers)
	return nil
}

// EventPublisher returns nil when kafka is disabled.
func (d *Dependencies) EventPublisher() domain.EventPublisher {
	if d.Publisher == nil {
		return nil
	}
	return d.Publisher
}

// Ping checks the database and redis, whichever are configured.
func (d *Dependencies) Ping(ctx context.Context) error {
	if d.DB != nil {
		sqlDB, err := d.DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func (d *Dependencies) Close() error {
	var errs []error
	if d.Publisher != nil {
		errs = append(errs, d.Publisher.Close())
	}
	if d.Redis != nil {
		errs = append(errs, d.Redis.Close())
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
