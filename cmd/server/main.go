// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"

	"github.com/propertyops/tenant-sms-backend/internal/cache"
	"github.com/propertyops/tenant-sms-backend/internal/config"
	"github.com/propertyops/tenant-sms-backend/internal/db"
	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/handler"
	"github.com/propertyops/tenant-sms-backend/internal/queue"
	"github.com/propertyops/tenant-sms-backend/internal/reply"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/scheduler"
	"github.com/propertyops/tenant-sms-backend/internal/service"
	"github.com/propertyops/tenant-sms-backend/internal/targeting"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}

	// Init DB
	db.Init()

	tenantRepo := &repository.TenantRepository{DB: db.DB}
	messageRepo := &repository.MessageRepository{DB: db.DB}
	replyRepo := &repository.ReplyRepository{DB: db.DB}
	scheduleRepo := &repository.ScheduleRepository{DB: db.DB}

	smsClient := gateway.NewTextBeltClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.TestMode, cfg.Gateway.ReplyWebhookURL)

	q := buildQueue(cfg, messageRepo, tenantRepo, smsClient)

	messageService := &service.MessageService{
		TenantRepo:  tenantRepo,
		MessageRepo: messageRepo,
		Queue:       q,
		Engine:      targeting.NewEngine(smsClient),
	}

	webhookService := &service.WebhookService{
		TenantRepo:  tenantRepo,
		MessageRepo: messageRepo,
		ReplyRepo:   replyRepo,
		ReplyCache:  buildReplyCache(cfg),
		Machine:     reply.NewMachine(cfg.Gateway.CompanyName),
		Client:      smsClient,
	}

	scheduleService := &service.ScheduleService{
		ScheduleRepo: scheduleRepo,
		Messages:     messageService,
	}

	sched, err := scheduler.New(cfg.Scheduler.Interval, func(ctx context.Context, now time.Time) {
		scheduleService.RunDue(ctx, now)
	})
	if err != nil {
		log.Fatal("failed to create scheduler:", err)
	}
	sched.Start()
	defer sched.Stop()

	r := handler.Router(
		handler.NewTenantHandler(tenantRepo),
		handler.NewMessageHandler(messageService, messageRepo),
		handler.NewScheduleHandler(scheduleService, scheduleRepo),
		handler.NewWebhookHandler(webhookService),
		handler.NewSchedulerHandler(sched),
	)

	log.Println("🚀 Server running on", cfg.Server.Address)
	log.Fatal(http.ListenAndServe(cfg.Server.Address, r))
}

// buildQueue prefers RabbitMQ; without AMQP_URL an in-process queue with
// a local send subscriber stands in so single-node deployments need no
// broker.
func buildQueue(cfg *config.Config, messageRepo *repository.MessageRepository, tenantRepo *repository.TenantRepository, client gateway.Client) queue.Queue {
	if cfg.Queue.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.Queue.AMQPURL)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ:", err)
		}
		q, err := queue.NewAMQPQueue(conn)
		if err != nil {
			log.Fatal("Failed to open AMQP channel:", err)
		}
		log.Println("✅ Publishing sends to RabbitMQ")
		return q
	}

	q := queue.NewInMemoryQueue()
	worker := service.NewWorker(messageRepo, tenantRepo, client)
	if err := q.Subscribe(queue.TopicMessageSends, func(payload any) error {
		msgID, ok := payload.(int)
		if !ok {
			log.Println("⚠️ invalid payload type, expected int")
			return nil
		}
		return worker.Process(context.Background(), msgID)
	}); err != nil {
		log.Fatal("Failed to start send subscriber:", err)
	}
	log.Println("✅ Using in-process send queue")
	return q
}

func buildReplyCache(cfg *config.Config) cache.ReplyCache {
	if !cfg.Redis.Enabled {
		log.Println("⚠️ Redis not configured, reply dedup is in-memory only")
		return cache.NewMemoryReplyCache()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return cache.NewRedisReplyCache(rdb, cfg.Redis.TTL)
}
