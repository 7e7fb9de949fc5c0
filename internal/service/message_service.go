package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/queue"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/targeting"
)

type MessageService struct {
	TenantRepo  repository.TenantRepositoryInterface
	MessageRepo repository.MessageRepositoryInterface
	Queue       queue.Queue
	Engine      *targeting.Engine
}

// Result struct for SendBulk
type SendBulkResult struct {
	Selected   int      `json:"selected"`
	Queued     int      `json:"queued"`
	Skipped    int      `json:"skipped"`
	MessageIDs []int    `json:"message_ids"`
	Errors     []string `json:"errors,omitempty"`
}

// SendBulk targets active tenants with the given condition, renders the
// template per recipient, records a pending message row each and queues
// the IDs for the sending worker. A render failure for one tenant is
// recorded and skipped; it never aborts the rest of the batch.
func (s *MessageService) SendBulk(conditionRaw, template string) (*SendBulkResult, error) {
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("template cannot be empty")
	}

	cond, err := targeting.Parse(conditionRaw)
	if err != nil {
		return nil, err
	}

	tenants, err := s.TenantRepo.ListActive()
	if err != nil {
		return nil, err
	}

	selected, err := targeting.Select(tenants, cond)
	if err != nil {
		return nil, err
	}

	result := &SendBulkResult{
		Selected:   len(selected),
		MessageIDs: []int{},
	}

	for i := range selected {
		tenant := &selected[i]

		content, err := targeting.Render(template, tenant)
		if err != nil {
			log.Println("⚠️ failed to render message for tenant", tenant.ID, ":", err)
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("tenant %d: %v", tenant.ID, err))
			continue
		}

		msg := &model.Message{
			TenantID: tenant.ID,
			Content:  content,
			Status:   "pending",
		}
		if err := s.MessageRepo.Create(msg); err != nil {
			log.Println("⚠️ failed to create outbound message:", err)
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("tenant %d: %v", tenant.ID, err))
			continue
		}

		if err := s.Queue.Publish(queue.TopicMessageSends, msg.ID); err != nil {
			log.Println("⚠️ failed to enqueue message ID", msg.ID, ":", err)
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("tenant %d: %v", tenant.ID, err))
			continue
		}

		result.MessageIDs = append(result.MessageIDs, msg.ID)
		result.Queued++
	}

	return result, nil
}

// SendDirect runs the full select/render/send pipeline synchronously and
// records one message row per recipient with the gateway result. Used by
// the schedule runner; sent and failed counts are per recipient.
func (s *MessageService) SendDirect(ctx context.Context, conditionRaw, template string) (sent, failed int, err error) {
	cond, err := targeting.Parse(conditionRaw)
	if err != nil {
		return 0, 0, err
	}

	tenants, err := s.TenantRepo.ListActive()
	if err != nil {
		return 0, 0, err
	}

	// Consent gate: scheduled sends never go to opted-out tenants.
	eligible := make([]model.Tenant, 0, len(tenants))
	for _, t := range tenants {
		if t.SMSOptInStatus != model.OptedOut {
			eligible = append(eligible, t)
		}
	}

	deliveries, err := s.Engine.SendBatch(ctx, eligible, cond, template)
	if err != nil {
		return 0, 0, err
	}

	for _, d := range deliveries {
		msg := &model.Message{
			TenantID: d.Tenant.ID,
			Content:  d.Content,
		}
		switch {
		case d.Err != nil:
			failed++
			msg.Status = "failed"
			msg.LastError = d.Err.Error()
		case d.Result != nil && d.Result.Success:
			sent++
			now := time.Now()
			msg.Status = "sent"
			msg.GatewayTextID = d.Result.TextID
			msg.SentAt = &now
		default:
			failed++
			msg.Status = "failed"
			if d.Result != nil {
				msg.LastError = d.Result.Error
			}
		}
		if err := s.MessageRepo.Create(msg); err != nil {
			log.Println("⚠️ failed to record message for tenant", d.Tenant.ID, ":", err)
		}
	}
	return sent, failed, nil
}

// RenderPreview renders a template against one tenant without sending,
// catching bad placeholders before a bulk run.
func (s *MessageService) RenderPreview(tenantID int, template string) (string, error) {
	if strings.TrimSpace(template) == "" {
		return "", fmt.Errorf("template cannot be empty")
	}

	tenant, err := s.TenantRepo.GetByID(tenantID)
	if err != nil {
		return "", err
	}

	return targeting.Render(template, tenant)
}
