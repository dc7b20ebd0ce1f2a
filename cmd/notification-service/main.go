package main

import (
	"context"
	"fmt"

	"bazaar/internal/pkg/bootstrap"
	"bazaar/internal/pkg/config"
	"bazaar/internal/pkg/mq"
	"bazaar/internal/service/notification"
)

const (
	serviceName   = "notification-service"
	servicePort   = 8085
	consumerGroup = "notification-service"
)

func main() {
	var cfg *config.Config

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        servicePort,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			cfg = appCtx.Cfg
			return nil
		},
		Background: func(ctx context.Context) error {
			if len(cfg.Infra.Kafka.Brokers) == 0 {
				return fmt.Errorf("notification service requires kafka brokers")
			}
			reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.OrderEventsTopic, consumerGroup)
			return notification.NewConsumer(reader).Run(ctx)
		},
	})
}
