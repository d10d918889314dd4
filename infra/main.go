package infra

import (
	"context"
	"log"

	"github.com/tnqbao/gau-showcase-admin/config"
	"github.com/tnqbao/gau-showcase-admin/infra/produce"
)

type Infra struct {
	Telemetry *TelemetryClient
	Logger    *LoggerClient
	Postgres  *PostgresClient
	Redis     *RedisClient
	Storage   ObjectStorage
	// RabbitMQ and Produce are nil when the broker is disabled or unreachable
	RabbitMQ *RabbitMQClient
	Produce  *produce.Produce
}

var infraInstance *Infra

func InitInfra(cfg *config.Config) *Infra {
	if infraInstance != nil {
		return infraInstance
	}

	telemetry := InitTelemetry(cfg.EnvConfig)

	logger := InitLoggerClient(cfg.EnvConfig, telemetry)
	if logger == nil {
		panic("Failed to initialize Logger service")
	}

	postgres := InitPostgresClient(cfg.EnvConfig)
	if postgres == nil {
		panic("Failed to initialize Postgres service")
	}

	redis := InitRedisClient(cfg.EnvConfig)
	if redis == nil {
		panic("Failed to initialize Redis service")
	}

	storage := InitStorage(cfg.EnvConfig)
	if storage == nil {
		panic("Failed to initialize Storage service")
	}

	var rabbitMQ *RabbitMQClient
	var produceService *produce.Produce
	if cfg.EnvConfig.RabbitMQ.Enabled {
		var err error
		rabbitMQ, err = NewRabbitMQClient(cfg.EnvConfig)
		if err != nil {
			log.Printf("Warning: Failed to initialize RabbitMQ service: %v (failed deletions will not be retried)", err)
		} else {
			produceService = produce.InitProduce(rabbitMQ.Channel)
		}
	}

	infraInstance = &Infra{
		Telemetry: telemetry,
		Logger:    logger,
		Postgres:  postgres,
		Redis:     redis,
		Storage:   storage,
		RabbitMQ:  rabbitMQ,
		Produce:   produceService,
	}

	return infraInstance
}

func GetClient() *Infra {
	if infraInstance == nil {
		panic("Infra not initialized. Call InitInfra() first.")
	}
	return infraInstance
}

// Close releases broker connections and flushes telemetry.
func (i *Infra) Close(ctx context.Context) {
	if err := i.RabbitMQ.Close(); err != nil {
		log.Printf("Warning: failed to close RabbitMQ: %v", err)
	}
	if err := i.Telemetry.Shutdown(ctx); err != nil {
		log.Printf("Warning: failed to shut down telemetry: %v", err)
	}
}
