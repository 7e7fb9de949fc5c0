package model

import "time"

// Reply is the audit record for an inbound SMS received from the gateway.
type Reply struct {
	ID            int       `db:"id" json:"id"`
	ReplyUID      string    `db:"reply_uid" json:"reply_uid"`
	MessageID     *int      `db:"message_id" json:"message_id,omitempty"` // original outbound message, when resolvable
	GatewayTextID string    `db:"gateway_text_id" json:"gateway_text_id"`
	FromNumber    string    `db:"from_number" json:"from_number"`
	Body          string    `db:"body" json:"body"`
	Intent        string    `db:"intent" json:"intent"` // opt_in, opt_out, unrecognized
	Processed     bool      `db:"processed" json:"processed"`
	ReceivedAt    time.Time `db:"received_at" json:"received_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
