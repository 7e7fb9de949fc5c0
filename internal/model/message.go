package model

import "time"

type Message struct {
	ID            int        `db:"id" json:"id"`
	TenantID      int        `db:"tenant_id" json:"tenant_id"`
	Content       string     `db:"content" json:"content"`
	Status        string     `db:"status" json:"status"` // pending, sent, failed
	GatewayTextID string     `db:"gateway_text_id" json:"gateway_text_id,omitempty"`
	LastError     string     `db:"last_error" json:"last_error,omitempty"`
	RetryCount    int        `db:"retry_count" json:"retry_count"`
	SentAt        *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
