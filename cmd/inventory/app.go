package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/config"
	pkgdb "github.com/Skotchmaster/inventory/internal/db"
	"github.com/Skotchmaster/inventory/internal/es"
	"github.com/Skotchmaster/inventory/internal/logging"
	"github.com/Skotchmaster/inventory/internal/mykafka"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/tokens"
)

// app holds every long-lived dependency built from configuration.
type app struct {
	cfg    *config.Config
	log    *logrus.Logger
	db     *gorm.DB
	redis  *redis.Client
	kafka  *mykafka.Producer
	search *es.ProductIndex

	auth     *service.AuthService
	category *service.CategoryService
	product  *service.ProductService
}

func loadConfig() (*config.Config, *logrus.Logger, error) {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logrus.SetLevel(logger.GetLevel())
	logrus.SetFormatter(logger.Formatter)

	if err := config.MustNonEmpty("DATABASE_URL", cfg.DatabaseURL); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func openDB(cfg *config.Config) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
}

// migrateOrClose runs migrations and releases db when they fail.
func migrateOrClose(db *gorm.DB) error {
	if err := pkgdb.Migrate(db); err != nil {
		_ = pkgdb.Close(db)
		return err
	}
	return nil
}

// newApp wires the optional integrations: each one is skipped when its
// address is not configured.
func newApp(cfg *config.Config, logger *logrus.Logger, db *gorm.DB) *app {
	a := &app{cfg: cfg, log: logger, db: db}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unavailable, rate limiting falls back to memory")
			_ = client.Close()
		} else {
			a.redis = client
		}
	}

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			logger.WithError(err).Warn("kafka producer disabled")
		} else {
			a.kafka = p
			events = p
		}
	}

	var indexer service.ProductIndexer
	if cfg.ESURL != "" {
		client, err := es.NewClient(ctx, es.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			logger.WithError(err).Warn("elasticsearch disabled, search uses the database")
		} else {
			idx := es.NewProductIndex(client, cfg.ESIndex)
			if err := idx.EnsureIndex(ctx); err != nil {
				logger.WithError(err).Warn("elasticsearch index not ready")
			}
			a.search = idx
			indexer = idx
		}
	}

	r := repo.New(db)
	a.auth = &service.AuthService{
		Users:  r,
		Tokens: r,
		Issuer: tokens.NewIssuer(cfg.TokenSecret, cfg.TokenTTL),
		Events: events,
	}
	a.category = &service.CategoryService{Repo: r, Events: events}
	a.product = &service.ProductService{Repo: r, Categories: r, Indexer: indexer, Events: events}
	return a
}

func (a *app) close() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.log.WithError(err).Warn("kafka close")
		}
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if err := pkgdb.Close(a.db); err != nil {
		a.log.WithError(err).Warn("db close")
	}
}
