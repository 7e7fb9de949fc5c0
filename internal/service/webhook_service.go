package service

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/propertyops/tenant-sms-backend/internal/cache"
	"github.com/propertyops/tenant-sms-backend/internal/gateway"
	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/reply"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
)

// WebhookService is the caller of the reply state machine. It owns the
// obligations the machine leaves outside: the seen-set keyed by gateway
// text id, persisting tenant mutations and audit rows, and sending the
// confirmation text.
type WebhookService struct {
	TenantRepo  repository.TenantRepositoryInterface
	MessageRepo repository.MessageRepositoryInterface
	ReplyRepo   repository.ReplyRepositoryInterface
	ReplyCache  cache.ReplyCache
	Machine     *reply.Machine
	Client      gateway.Client
}

// Reply handling statuses returned to the gateway.
const (
	ReplyStatusSuccess        = "success"
	ReplyStatusTenantNotFound = "tenantNotFound"
	ReplyStatusError          = "error"
)

type ReplyResult struct {
	Status    string `json:"status"`
	ReplyID   string `json:"replyId,omitempty"`
	Intent    string `json:"intent,omitempty"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// HandleReply processes one inbound reply event end to end. Duplicate
// deliveries of the same gateway text id are dropped before the state
// machine runs; the machine itself would apply them again.
func (s *WebhookService) HandleReply(ctx context.Context, ev reply.Event) (*ReplyResult, error) {
	seen, err := s.ReplyCache.MarkSeen(ctx, ev.GatewayTextID)
	if err != nil {
		// A broken seen-set must not drop live replies; at worst a
		// duplicate confirmation goes out.
		log.Println("⚠️ reply dedup check failed:", err)
	} else if seen {
		log.Println("duplicate reply delivery ignored for text id", ev.GatewayTextID)
		return &ReplyResult{Status: ReplyStatusSuccess, Duplicate: true}, nil
	}

	tenants, err := s.TenantRepo.ListActive()
	if err != nil {
		return &ReplyResult{Status: ReplyStatusError}, err
	}

	outcome, err := s.Machine.Receive(tenants, ev)
	if err != nil {
		// Ambiguous number: keep the reply for manual review, mutate nothing.
		if ambErr, ok := err.(*reply.AmbiguousTenantError); ok {
			log.Println("⚠️", ambErr)
			rec := s.newReplyRecord(ev, reply.Classify(ev.Text), false)
			if createErr := s.ReplyRepo.Create(rec); createErr != nil {
				log.Println("⚠️ failed to save ambiguous reply:", createErr)
			}
			return &ReplyResult{Status: ReplyStatusError, ReplyID: rec.ReplyUID, Intent: rec.Intent}, err
		}
		return &ReplyResult{Status: ReplyStatusError}, err
	}

	processed := outcome.Tenant != nil && outcome.Intent != reply.IntentUnrecognized
	rec := s.newReplyRecord(ev, outcome.Intent, processed)
	if err := s.ReplyRepo.Create(rec); err != nil {
		return &ReplyResult{Status: ReplyStatusError}, err
	}

	if outcome.Tenant == nil {
		log.Println("tenant not found for phone number:", ev.FromNumber)
		return &ReplyResult{Status: ReplyStatusTenantNotFound, ReplyID: rec.ReplyUID, Intent: outcome.Intent}, nil
	}

	if processed {
		t := outcome.Tenant
		if err := s.TenantRepo.UpdateOptInStatus(t.ID, t.SMSOptInStatus, t.SMSOptInDate, t.SMSOptOutDate); err != nil {
			return &ReplyResult{Status: ReplyStatusError, ReplyID: rec.ReplyUID}, err
		}
		log.Printf("tenant %d (%s) is now %s", t.ID, t.Name, t.SMSOptInStatus)
	}

	if outcome.ConfirmationMessage != "" {
		if _, err := s.Client.Send(ctx, outcome.Tenant.Phone, outcome.ConfirmationMessage); err != nil {
			// Confirmation failures are logged, never fatal to the reply.
			log.Println("⚠️ failed to send confirmation to", outcome.Tenant.Name, ":", err)
		}
	}

	return &ReplyResult{Status: ReplyStatusSuccess, ReplyID: rec.ReplyUID, Intent: outcome.Intent}, nil
}

func (s *WebhookService) newReplyRecord(ev reply.Event, intent string, processed bool) *model.Reply {
	rec := &model.Reply{
		ReplyUID:      uuid.NewString(),
		GatewayTextID: ev.GatewayTextID,
		FromNumber:    ev.FromNumber,
		Body:          ev.Text,
		Intent:        intent,
		Processed:     processed,
		ReceivedAt:    ev.ReceivedAt,
	}

	// Link back to the outbound message this reply answers, when known.
	if ev.GatewayTextID != "" {
		if orig, err := s.MessageRepo.GetByGatewayTextID(ev.GatewayTextID); err == nil && orig != nil {
			rec.MessageID = &orig.ID
		}
	}
	return rec
}
