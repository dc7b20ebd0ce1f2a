package main

import (
	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/service/catalog/application"
	"bazaar/internal/service/catalog/domain"
	"bazaar/internal/service/catalog/infrastructure"
	"bazaar/internal/service/catalog/interfaces"
)

const (
	serviceName = "catalog-service"
	servicePort = 8082
)

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			repo, err := newRepository(appCtx.Cfg.Infra.MySQL.DSN)
			if err != nil {
				return err
			}
			service := application.NewService(repo)
			interfaces.NewCatalogHandler(service).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

func newRepository(dsn string) (domain.ItemRepository, error) {
	if dsn == "" {
		logger.Logger().Warn().Msg("no mysql dsn configured, using in-memory catalog store")
		return infrastructure.NewMemoryItemRepository(), nil
	}
	db, err := database.OpenMySQL(dsn)
	if err != nil {
		return nil, err
	}
	return infrastructure.NewGormItemRepository(db)
}
