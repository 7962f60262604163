package bootstrap

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 描述整个服务的静态配置。
// yaml 文件提供默认值，关键的基础设施地址可以被环境变量覆盖，
// 以便在容器环境中不改文件就能调整部署。
type Config struct {
	Service struct {
		Name        string `yaml:"name"`
		Port        int    `yaml:"port"`
		Environment string `yaml:"environment"`
	} `yaml:"service"`

	Infra struct {
		Mysql struct {
			DSN string `yaml:"dsn"`
		} `yaml:"mysql"`
		Kafka struct {
			Brokers             string `yaml:"brokers"`
			OrderEventsTopic    string `yaml:"orderEventsTopic"`
			WorkflowEventsTopic string `yaml:"workflowEventsTopic"`
			ConsumerGroup       string `yaml:"consumerGroup"`
		} `yaml:"kafka"`
		Redis struct {
			Addrs string `yaml:"addrs"`
		} `yaml:"redis"`
		Zookeeper struct {
			Enabled bool   `yaml:"enabled"`
			Servers string `yaml:"servers"`
		} `yaml:"zookeeper"`
		Jaeger struct {
			Endpoint    string  `yaml:"endpoint"`
			SampleRatio float64 `yaml:"sampleRatio"`
		} `yaml:"jaeger"`
	} `yaml:"infra"`

	External struct {
		AccountServiceURL      string        `yaml:"accountServiceUrl"`
		CrmServiceURL          string        `yaml:"crmServiceUrl"`
		ConfirmationServiceURL string        `yaml:"confirmationServiceUrl"`
		CurrencyServiceURL     string        `yaml:"currencyServiceUrl"`
		LookupRetries          int           `yaml:"lookupRetries"`
		LookupTimeout          time.Duration `yaml:"lookupTimeout"`
	} `yaml:"external"`

	App struct {
		Scheduling struct {
			Mode                    string        `yaml:"mode"` // none / simple / batched
			Period                  time.Duration `yaml:"period"`
			PriceIncreasePercentage string        `yaml:"priceIncreasePercentage"`
		} `yaml:"scheduling"`
		RateCacheTTL time.Duration `yaml:"rateCacheTtl"`
	} `yaml:"app"`
}

var currentConfig Config

// LoadConfig 从 yaml 文件加载配置并应用环境变量覆盖。
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.Infra.Mysql.DSN = getEnv("MYSQL_DSN", cfg.Infra.Mysql.DSN)
	cfg.Infra.Kafka.Brokers = getEnv("KAFKA_BROKERS", cfg.Infra.Kafka.Brokers)
	cfg.Infra.Redis.Addrs = getEnv("REDIS_ADDRS", cfg.Infra.Redis.Addrs)
	cfg.Infra.Zookeeper.Servers = getEnv("ZK_SERVERS", cfg.Infra.Zookeeper.Servers)
	cfg.Infra.Jaeger.Endpoint = getEnv("JAEGER_ENDPOINT", cfg.Infra.Jaeger.Endpoint)
	if v, ok := os.LookupEnv("JAEGER_SAMPLE_RATIO"); ok {
		if ratio, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Infra.Jaeger.SampleRatio = ratio
		}
	}
	cfg.Service.Environment = getEnv("SERVICE_ENVIRONMENT", cfg.Service.Environment)
	cfg.External.AccountServiceURL = getEnv("ACCOUNT_SERVICE_URL", cfg.External.AccountServiceURL)
	cfg.External.CrmServiceURL = getEnv("CRM_SERVICE_URL", cfg.External.CrmServiceURL)
	cfg.External.ConfirmationServiceURL = getEnv("CONFIRMATION_SERVICE_URL", cfg.External.ConfirmationServiceURL)
	cfg.External.CurrencyServiceURL = getEnv("CURRENCY_SERVICE_URL", cfg.External.CurrencyServiceURL)

	currentConfig = cfg
	return &currentConfig, nil
}

// GetCurrentConfig 返回最近一次加载的配置。
func GetCurrentConfig() *Config {
	return &currentConfig
}

func defaultConfig() Config {
	var cfg Config
	cfg.Service.Name = "warehouse-service"
	cfg.Service.Port = 8080
	cfg.Service.Environment = "dev"
	cfg.Infra.Mysql.DSN = "root:root@tcp(localhost:3306)/warehouse?charset=utf8mb4&parseTime=True&loc=UTC"
	cfg.Infra.Kafka.Brokers = "localhost:9092"
	cfg.Infra.Kafka.OrderEventsTopic = "warehouse-order-events"
	cfg.Infra.Kafka.WorkflowEventsTopic = "warehouse-workflow-events"
	cfg.Infra.Kafka.ConsumerGroup = "warehouse-workflow-consumer-group"
	cfg.Infra.Redis.Addrs = "localhost:6379"
	cfg.Infra.Zookeeper.Servers = "localhost:2181"
	cfg.Infra.Jaeger.Endpoint = "http://localhost:14268/api/traces"
	cfg.Infra.Jaeger.SampleRatio = 1
	cfg.External.AccountServiceURL = "http://localhost:8091/accounts"
	cfg.External.CrmServiceURL = "http://localhost:8092/crms"
	cfg.External.ConfirmationServiceURL = "http://localhost:8093/process/confirm-order"
	cfg.External.CurrencyServiceURL = "http://localhost:8094/currencies"
	cfg.External.LookupRetries = 2
	cfg.External.LookupTimeout = 5 * time.Second
	cfg.App.Scheduling.Mode = "none"
	cfg.App.Scheduling.Period = time.Hour
	cfg.App.Scheduling.PriceIncreasePercentage = "10"
	cfg.App.RateCacheTTL = 10 * time.Minute
	return cfg
}

// getEnv 是一个内部辅助函数，从环境变量中读取配置。
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
