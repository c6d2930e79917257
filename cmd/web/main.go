package main

import (
	"log"

	"github.com/kataras/iris/v12"
	"go.uber.org/zap"

	"github.com/piyusu/E-commerse-inventry/internal/config"
	"github.com/piyusu/E-commerse-inventry/internal/infra/mq"
	"github.com/piyusu/E-commerse-inventry/internal/infra/redis"
	"github.com/piyusu/E-commerse-inventry/internal/logger"
	"github.com/piyusu/E-commerse-inventry/internal/repository/mysql"
	"github.com/piyusu/E-commerse-inventry/internal/server"
)

func main() {
	cfg, err := config.Load("./config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	db, err := mysql.Open(&cfg.MySQL)
	if err != nil {
		zap.L().Fatal("database unavailable", zap.Error(err))
	}

	deps := server.Deps{DB: db}

	// redis and rabbitmq are optional, the API runs without them
	if cfg.Redis.Addr != "" {
		client, err := redis.Open(&cfg.Redis)
		if err != nil {
			zap.L().Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
		} else {
			deps.Redis = client
		}
	}
	if cfg.RabbitMQ.URL != "" {
		conn, err := mq.Dial(&cfg.RabbitMQ)
		if err != nil {
			zap.L().Warn("rabbitmq unavailable, low-stock alerts disabled", zap.Error(err))
		} else {
			deps.Alerts = mq.NewStockAlertPublisher(conn)
		}
	}

	app := iris.New()
	server.RegisterRoutes(app, cfg, deps)

	addr := cfg.Server.Addr()
	zap.L().Info("storefront api listening", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}
