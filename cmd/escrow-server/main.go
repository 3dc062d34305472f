package main

import (
	"context"
	"os"
	"time"

	"escrow-core/internal/handler"
	"escrow-core/internal/model"
	"escrow-core/internal/server"
	"escrow-core/internal/service"
	"escrow-core/internal/service/escrow"
	"escrow-core/internal/service/mq"
	"escrow-core/internal/store"
	"escrow-core/internal/worker"

	"escrow-core/pkg/cache"
	"escrow-core/pkg/config"
	"escrow-core/pkg/database"
	"escrow-core/pkg/logger"
	"escrow-core/pkg/utils/lock"

	"go.uber.org/zap"
)

// @title Escrow Core API
// @version 1.0
// @description Crowdfunding escrow service API

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()
	cfg := config.Global

	// 1. 初始化 Logger
	logger.Init(cfg.App.Env, cfg.App.LogFile)
	defer logger.Sync()

	// 2. 连接数据库
	db, err := database.ConnectPostgres(database.PostgresDSN(cfg.DB), cfg.App.Env)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. 连接 Redis
	rdb, err := database.ConnectRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. 开发环境自动迁移，生产环境使用 cmd/migrate
	if cfg.App.Env == "development" {
		logger.Info("开发环境: GORM AutoMigrate")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
	}

	// 5. 托管服务 (活动参数走 L1 内存 + L2 Redis 缓存)
	st := store.NewGormStore(db)
	multiCache := cache.NewMultiLevelCache(
		cache.NewMemoryCache(cfg.Escrow.CacheTTL, 2*cfg.Escrow.CacheTTL),
		cache.NewRedisCache(rdb, "escrow:"),
	)
	escrowService := escrow.NewService(st, escrow.WithCache(multiCache, cfg.Escrow.CacheTTL))

	// 6. 消息队列
	// 所有事件走同一个 topic / stream，事件类型在消息头里
	stream := cfg.Kafka.Topic
	var (
		producer mq.Producer
		consumer mq.Consumer
	)
	if cfg.Redis.MQType == "kafka" {
		logger.Info("使用 Kafka 作为消息队列", zap.Strings("brokers", cfg.Kafka.Brokers))
		producer = mq.NewKafkaProducer(cfg.Kafka.Brokers, stream)
		consumer = mq.NewKafkaConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	} else {
		logger.Info("使用 Redis Streams 作为消息队列")
		producer = mq.NewRedisProducer(rdb, stream)
		hostname, _ := os.Hostname()
		consumer = mq.NewRedisConsumer(rdb, cfg.Kafka.GroupID, hostname)
	}

	ctx, cancel := context.WithCancel(context.Background())

	// 7. Outbox 中继 + 审计消费者
	go service.NewRelayService(st, producer).Start(ctx)
	go func() {
		if err := service.NewEventAuditor(consumer, stream).Run(ctx); err != nil {
			logger.Error("Event auditor stopped", zap.Error(err))
		}
	}()

	// 8. 异步任务 (退款提醒)
	taskClient := worker.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	taskServer := worker.NewServer(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Worker.Concurrency)
	if err := taskServer.Start(); err != nil {
		logger.Fatal("Worker 启动失败", zap.Error(err))
	}

	// 9. 截止时间巡检
	cronService := service.NewCronService(lock.NewRedisLock(rdb), escrowService, taskClient, cfg.Escrow.WatchSpec, cfg.Escrow.WatchBatch)
	if err := cronService.Start(); err != nil {
		logger.Fatal("Cron 启动失败", zap.Error(err))
	}

	// 10. HTTP + gRPC
	health := handler.NewHealthHandler("escrow-server", map[string]handler.Checker{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	})
	r := server.NewHTTPRouter(handler.NewCampaignHandler(escrowService), health)
	grpcServer, grpcHealth := server.NewGRPCServer()

	app, err := server.New(server.Config{
		HttpPort: cfg.App.HttpPort,
		GrpcPort: cfg.App.GrpcPort,
	}, r, grpcServer, grpcHealth)
	if err != nil {
		logger.Fatal("应用启动失败", zap.Error(err))
	}

	// 11. 退出后资源清理
	app.OnShutdown(func(context.Context) {
		cronService.Stop()
		cancel()
		taskServer.Stop()
		_ = taskClient.Close()
		_ = producer.Close()
		_ = consumer.Close()
		// 给 relay 和消费者一点时间退出循环
		time.Sleep(200 * time.Millisecond)

		logger.Info("正在关闭数据库连接...")
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		_ = rdb.Close()
	})

	// 运行 (阻塞)
	app.Run()
	logger.Info("系统已退出")
}
