package main

import (
	"go.opentelemetry.io/otel"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/service/payment/application"
	"bazaar/internal/service/payment/interfaces"
)

const (
	serviceName = "payment-service"
	servicePort = 8084
)

func main() {
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			service := application.NewService(appCtx.Cfg.Payment.MaxAmount, otel.Tracer(serviceName))
			interfaces.NewPaymentHandler(service).RegisterRoutes(appCtx.Mux)
			return nil
		},
	})
}
