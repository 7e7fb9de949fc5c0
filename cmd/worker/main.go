package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/joho/godotenv"
	"github.com/streadway/amqp"

	"github.com/propertyops/tenant-sms-backend/internal/config"
	"github.com/propertyops/tenant-sms-backend/internal/db"
	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/queue"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/service"
)

type queueJob struct {
	MessageID int `json:"message_id"`
}

const maxRetries = 3

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	cfg, err := config.LoadAll()
	if err != nil {
		log.Fatal("invalid configuration:", err)
	}
	if cfg.Queue.AMQPURL == "" {
		log.Fatal("AMQP_URL is required for the worker")
	}

	db.Init()

	tenantRepo := &repository.TenantRepository{DB: db.DB}
	messageRepo := &repository.MessageRepository{DB: db.DB}
	smsClient := gateway.NewTextBeltClient(cfg.Gateway.BaseURL, cfg.Gateway.APIKey, cfg.Gateway.TestMode, cfg.Gateway.ReplyWebhookURL)

	worker := service.NewWorker(messageRepo, tenantRepo, smsClient)

	// Connect to RabbitMQ
	conn, err := amqp.Dial(cfg.Queue.AMQPURL)
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		queue.TopicMessageSends,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job queueJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("Invalid job:", err)
				d.Ack(false)
				continue
			}

			err := worker.Process(context.Background(), job.MessageID)
			if err != nil {
				log.Println("Failed to send message:", err)
				// Retry logic: requeue up to maxRetries times
				var retryCount int
				if v, ok := d.Headers["x-retry-count"].(int32); ok {
					retryCount = int(v)
				}
				if retryCount < maxRetries {
					d.Nack(false, true) // requeue
					continue
				}
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for messages...")
	<-forever
}
