package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/database"
	"bazaar/internal/pkg/httpclient"
	"bazaar/internal/pkg/logger"
	"bazaar/internal/pkg/metrics"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/order/application"
	"bazaar/internal/service/order/domain"
	"bazaar/internal/service/order/domain/port"
	"bazaar/internal/service/order/infrastructure"
	"bazaar/internal/service/order/infrastructure/adapter"
	"bazaar/internal/service/order/interfaces"
)

const (
	serviceName = "order-service"
	servicePort = 8081
)

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			cfg := appCtx.Cfg
			tracer := otel.Tracer(serviceName)

			repo, err := newRepository(cfg.Infra.MySQL.DSN)
			if err != nil {
				return err
			}

			client := httpclient.NewClient(tracer)
			pricing := adapter.NewPricingHTTPAdapter(client, cfg.Services.CatalogURL)
			ledger := adapter.NewInventoryHTTPAdapter(client, cfg.Services.InventoryURL)
			payment := adapter.NewPaymentHTTPAdapter(client, cfg.Services.PaymentURL)

			var publisher port.EventPublisher = infrastructure.NopEventPublisher{}
			if len(cfg.Infra.Kafka.Brokers) > 0 {
				writer := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderEventsTopic)
				publisher = infrastructure.NewKafkaEventPublisher(writer)
			} else {
				logger.Logger().Warn().Msg("no kafka brokers configured, order events disabled")
			}

			sagaMetrics := metrics.NewSagaMetrics(prometheus.DefaultRegisterer, "order")
			service := application.NewService(repo, pricing, ledger, payment, publisher, tracer, sagaMetrics)
			interfaces.NewOrderHandler(service).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}

func newRepository(dsn string) (domain.OrderRepository, error) {
	if dsn == "" {
		logger.Logger().Warn().Msg("no mysql dsn configured, using in-memory order store")
		return infrastructure.NewMemoryOrderRepository(), nil
	}
	db, err := database.OpenMySQL(dsn)
	if err != nil {
		return nil, err
	}
	return infrastructure.NewGormOrderRepository(db)
}
