package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Gateway   GatewayConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Enabled  bool
	Address  string
	Password string
	DB       int
	TTL      time.Duration
}

type QueueConfig struct {
	// AMQPURL empty means the in-process queue is used instead of RabbitMQ.
	AMQPURL string
}

type GatewayConfig struct {
	BaseURL         string
	APIKey          string
	TestMode        bool
	CompanyName     string
	ReplyWebhookURL string
}

type SchedulerConfig struct {
	Interval time.Duration
}

func LoadAll() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Queue: QueueConfig{
			AMQPURL: os.Getenv("AMQP_URL"),
		},
		Gateway: GatewayConfig{
			BaseURL:         getEnv("SMS_API_URL", "https://textbelt.com/text"),
			APIKey:          mustEnv("SMS_API_KEY"),
			TestMode:        getEnvBool("SMS_TEST_MODE", false),
			CompanyName:     getEnv("COMPANY_NAME", "Jannah Property Management"),
			ReplyWebhookURL: os.Getenv("SMS_REPLY_WEBHOOK_URL"),
		},
		Scheduler: SchedulerConfig{
			Interval: time.Duration(getEnvInt("SCHED_INTERVAL_SECONDS", 60)) * time.Second,
		},
		Redis: loadRedisConfig(),
	}

	if cfg.Scheduler.Interval <= 0 {
		return nil, fmt.Errorf("SCHED_INTERVAL_SECONDS must be > 0")
	}
	return cfg, nil
}

func loadRedisConfig() RedisConfig {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}
	}

	return RedisConfig{
		Enabled:  true,
		Address:  addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       getEnvInt("REDIS_DB", 0),
		TTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 7*86400)) * time.Second,
	}
}

func mustEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("missing required env var: %s", key))
	}
	return val
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("invalid int for env %s: %s", key, v))
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(fmt.Sprintf("invalid bool for env %s: %s", key, v))
	}
	return b
}
