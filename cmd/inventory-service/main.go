package main

import (
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/config"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/redis"
	"bazaar/internal/service/inventory/application"
	"bazaar/internal/service/inventory/domain"
	"bazaar/internal/service/inventory/infrastructure"
	"bazaar/internal/service/inventory/interfaces"
)

const (
	serviceName = "inventory-service"
	servicePort = 8083
)

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			ledger, err := newLedger(appCtx.Cfg)
			if err != nil {
				return err
			}
			service := application.NewService(ledger, otel.Tracer(serviceName))
			interfaces.NewInventoryHandler(service).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

// newLedger picks the stock backend: MySQL when a DSN is set, Redis when an
// address is set, otherwise an in-process map. Every backend performs the
// stock check and decrement as one atomic step.
func newLedger(cfg *config.Config) (domain.Ledger, error) {
	switch {
	case cfg.Infra.MySQL.DSN != "":
		db, err := database.OpenMySQL(cfg.Infra.MySQL.DSN)
		if err != nil {
			return nil, err
		}
		return infrastructure.NewGormLedger(db)
	case cfg.Infra.Redis.Addr != "":
		client, err := redis.NewClient(cfg.Infra.Redis.Addr)
		if err != nil {
			return nil, err
		}
		return infrastructure.NewRedisLedger(client)
	default:
		logger.Logger().Warn().Msg("no mysql dsn or redis addr configured, using in-memory ledger")
		return infrastructure.NewMemoryLedger(), nil
	}
}
