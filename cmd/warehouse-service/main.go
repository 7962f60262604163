// cmd/warehouse-service/main.go
package main

import (
	"context"
	"flag"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"

	"warehouse/internal/pkg/bootstrap"
	"warehouse/internal/pkg/httpclient"
	"warehouse/internal/pkg/logger"
	"warehouse/internal/pkg/mq"
	"warehouse/internal/pkg/redis"
	"warehouse/internal/service/warehouse/application"
	"warehouse/internal/service/warehouse/domain/port"
	"warehouse/internal/service/warehouse/infrastructure"
	"warehouse/internal/service/warehouse/infrastructure/adapter"
	"warehouse/internal/service/warehouse/interfaces"
	"warehouse/internal/zookeeper"
)

// main 函数是应用的"组装根" (Composition Root)
// 它的核心职责是：创建并组装所有依赖项，然后启动应用。
func main() {
	configPath := flag.String("config", "", "path to config yaml")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		logger.Init("warehouse-service")
		logger.Logger().Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Service.Name)

	tracer := otel.Tracer(cfg.Service.Name)

	// 1. 基础设施：MySQL / Redis / Kafka / ZooKeeper
	db, err := infrastructure.NewMysqlDB(cfg.Infra.Mysql.DSN)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to initialize mysql")
	}

	redisClient, err := redis.NewClient(cfg.Infra.Redis.Addrs)
	if err != nil {
		logger.Logger().Warn().Err(err).Msg("redis unavailable, exchange rate cache disabled")
		redisClient = nil
	}

	brokers := strings.Split(cfg.Infra.Kafka.Brokers, ",")
	eventWriter := mq.NewKafkaWriter(brokers, cfg.Infra.Kafka.OrderEventsTopic)
	workflowReader := mq.NewKafkaReader(brokers, cfg.Infra.Kafka.WorkflowEventsTopic, cfg.Infra.Kafka.ConsumerGroup)

	// 库存锁：多实例部署走 ZooKeeper，否则用进程内锁
	var locker port.StockLocker
	var zkConn *zookeeper.Conn
	if cfg.Infra.Zookeeper.Enabled {
		zkConn, err = zookeeper.Connect(cfg.Infra.Zookeeper.Servers, 5*time.Second)
		if err != nil {
			logger.Logger().Fatal().Err(err).Msg("failed to connect to zookeeper")
		}
		locker = adapter.NewZkStockLocker(zkConn)
	} else {
		locker = adapter.NewLocalStockLocker()
	}

	// 2. 出站适配器
	httpClient := httpclient.NewClient(tracer)
	accounts := adapter.NewAccountHTTPAdapter(httpClient, cfg.External.AccountServiceURL, cfg.External.LookupRetries)
	crms := adapter.NewCrmHTTPAdapter(httpClient, cfg.External.CrmServiceURL, cfg.External.LookupRetries)
	confirmation := adapter.NewConfirmationHTTPAdapter(httpClient, cfg.External.ConfirmationServiceURL)
	currency := adapter.NewCurrencyRedisAdapter(httpClient, redisClient, cfg.External.CurrencyServiceURL, cfg.App.RateCacheTTL)
	eventProducer := infrastructure.NewOrderEventProducerAdapter(eventWriter)

	// 3. 仓储与应用服务
	productRepo := infrastructure.NewGormProductRepository(db)
	customerRepo := infrastructure.NewGormCustomerRepository(db)
	orderRepo := infrastructure.NewGormOrderRepository(db)
	txManager := infrastructure.NewGormTxManager(db)

	engine := application.NewReservationEngine(productRepo, tracer)
	orderService := application.NewOrderApplicationService(
		orderRepo, customerRepo, engine, txManager, locker,
		accounts, crms, confirmation, eventProducer,
		tracer, cfg.External.LookupTimeout,
	)
	aggregator := application.NewOrderEnrichmentAggregator(orderRepo, accounts, crms, tracer, cfg.External.LookupTimeout)
	productService := application.NewProductService(productRepo, currency, tracer)
	customerService := application.NewCustomerService(customerRepo, tracer)

	// 4. 入站适配器：Kafka 回调消费者 + 可选的调价任务
	consumerCtx, stopConsumers := context.WithCancel(context.Background())
	workflowConsumer := infrastructure.NewWorkflowConsumerAdapter(workflowReader, orderService)
	workflowConsumer.Start(consumerCtx)

	if cfg.App.Scheduling.Mode != "none" {
		var escalator application.PriceEscalator
		switch cfg.App.Scheduling.Mode {
		case "batched":
			escalator = application.NewBatchedPriceEscalator(productRepo)
		default:
			escalator = application.NewSimplePriceEscalator(productRepo, txManager)
		}
		percent, err := decimal.NewFromString(cfg.App.Scheduling.PriceIncreasePercentage)
		if err != nil {
			logger.Logger().Fatal().Err(err).Msg("invalid price increase percentage")
		}
		scheduler := application.NewPriceScheduler(escalator, percent, cfg.App.Scheduling.Period, tracer)
		go scheduler.Start(consumerCtx)
	}

	handler := interfaces.NewWarehouseHandler(orderService, aggregator, productService, customerService)

	// 5. 启动 HTTP 服务并挂接清理逻辑
	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: cfg.Service.Name,
		Port:        cfg.Service.Port,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			handler.RegisterRoutes(appCtx.Mux)
		},
		OnShutdown: func(ctx context.Context) {
			stopConsumers()
			workflowConsumer.Stop()
			if err := eventWriter.Close(); err != nil {
				logger.Logger().Error().Err(err).Msg("failed to close kafka writer")
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Logger().Error().Err(err).Msg("failed to close redis client")
				}
			}
			if zkConn != nil {
				zkConn.Close()
			}
		},
	})
}
