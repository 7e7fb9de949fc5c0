package service

import (
	"context"
	"fmt"
	"log"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
)

// Worker delivers queued outbound messages through the SMS gateway.
type Worker struct {
	MessageRepo repository.MessageRepositoryInterface
	TenantRepo  repository.TenantRepositoryInterface
	Client      gateway.Client
}

func NewWorker(messageRepo repository.MessageRepositoryInterface, tenantRepo repository.TenantRepositoryInterface, client gateway.Client) *Worker {
	return &Worker{
		MessageRepo: messageRepo,
		TenantRepo:  tenantRepo,
		Client:      client,
	}
}

// Process sends one queued message and updates its row. A message that
// is gone or already handled is skipped without error so redeliveries
// are harmless.
func (w *Worker) Process(ctx context.Context, messageID int) error {
	msg, err := w.MessageRepo.GetByID(messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		log.Println("⚠️ message not found for ID:", messageID)
		return nil
	}
	if msg.Status != "pending" {
		return nil
	}

	tenant, err := w.TenantRepo.GetByID(msg.TenantID)
	if err != nil {
		if _, ok := err.(*appErrors.ErrTenantNotFound); ok {
			return w.MessageRepo.MarkFailed(msg.ID, err.Error())
		}
		return err
	}

	// Consent gate: never deliver to a tenant who opted out after the
	// message was queued.
	if tenant.SMSOptInStatus == model.OptedOut {
		return w.MessageRepo.MarkFailed(msg.ID, "tenant has opted out of SMS")
	}

	res, err := w.Client.Send(ctx, tenant.Phone, msg.Content)
	if err != nil {
		if markErr := w.MessageRepo.MarkFailed(msg.ID, err.Error()); markErr != nil {
			log.Println("⚠️ failed to update message status:", markErr)
		}
		return err // triggers retry in queue
	}
	if !res.Success {
		reason := res.Error
		if reason == "" {
			reason = "gateway rejected message"
		}
		if markErr := w.MessageRepo.MarkFailed(msg.ID, reason); markErr != nil {
			log.Println("⚠️ failed to update message status:", markErr)
		}
		return fmt.Errorf("send rejected for message %d: %s", msg.ID, reason)
	}

	return w.MessageRepo.MarkSent(msg.ID, res.TextID)
}

// Start consumes message IDs from a channel until it closes.
func (w *Worker) Start(ctx context.Context, jobs <-chan int) {
	for id := range jobs {
		if err := w.Process(ctx, id); err != nil {
			log.Println("⚠️ failed to process message", id, ":", err)
		}
	}
}
