package repository

import (
	"database/sql"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

type MessageRepositoryInterface interface {
	Create(msg *model.Message) error
	GetByID(id int) (*model.Message, error)
	GetByGatewayTextID(textID string) (*model.Message, error)
	MarkSent(id int, gatewayTextID string) error
	MarkFailed(id int, reason string) error
	ListByTenant(tenantID, limit int) ([]model.Message, error)
	ListRecent(limit, offset int) ([]model.Message, error)
	StatusCounts() (map[string]int, error)
}

type MessageRepository struct {
	DB *sql.DB
}

const messageColumns = `id, tenant_id, content, status, gateway_text_id, last_error, retry_count, sent_at, created_at, updated_at`

func scanMessage(row interface{ Scan(...any) error }, m *model.Message) error {
	return row.Scan(
		&m.ID, &m.TenantID, &m.Content, &m.Status, &m.GatewayTextID,
		&m.LastError, &m.RetryCount, &m.SentAt, &m.CreatedAt, &m.UpdatedAt,
	)
}

// Create inserts a pending outbound message and fills in the created ID.
func (r *MessageRepository) Create(msg *model.Message) error {
	now := time.Now()
	msg.CreatedAt = now
	msg.UpdatedAt = now
	if msg.Status == "" {
		msg.Status = "pending"
	}
	query := `
        INSERT INTO messages (tenant_id, content, status, gateway_text_id, last_error, retry_count, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		msg.TenantID, msg.Content, msg.Status, msg.GatewayTextID,
		msg.LastError, msg.RetryCount, msg.CreatedAt, msg.UpdatedAt,
	).Scan(&msg.ID)
}

func (r *MessageRepository) GetByID(id int) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id=$1`
	var m model.Message
	if err := scanMessage(r.DB.QueryRow(query, id), &m); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetByGatewayTextID resolves the outbound message an inbound reply
// refers to.
func (r *MessageRepository) GetByGatewayTextID(textID string) (*model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE gateway_text_id=$1`
	var m model.Message
	if err := scanMessage(r.DB.QueryRow(query, textID), &m); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MessageRepository) MarkSent(id int, gatewayTextID string) error {
	query := `
        UPDATE messages
        SET status='sent', gateway_text_id=$1, last_error='', sent_at=NOW(), updated_at=NOW()
        WHERE id=$2
    `
	_, err := r.DB.Exec(query, gatewayTextID, id)
	return err
}

func (r *MessageRepository) MarkFailed(id int, reason string) error {
	query := `
        UPDATE messages
        SET status='failed', last_error=$1, retry_count=retry_count+1, updated_at=NOW()
        WHERE id=$2
    `
	_, err := r.DB.Exec(query, reason, id)
	return err
}

func (r *MessageRepository) ListByTenant(tenantID, limit int) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE tenant_id=$1 ORDER BY id DESC LIMIT $2`
	return r.queryMessages(query, tenantID, limit)
}

func (r *MessageRepository) ListRecent(limit, offset int) ([]model.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages ORDER BY id DESC LIMIT $1 OFFSET $2`
	return r.queryMessages(query, limit, offset)
}

func (r *MessageRepository) queryMessages(query string, args ...any) ([]model.Message, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := []model.Message{}
	for rows.Next() {
		var m model.Message
		if err := scanMessage(rows, &m); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *MessageRepository) StatusCounts() (map[string]int, error) {
	query := `SELECT status, COUNT(*) FROM messages GROUP BY status`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := map[string]int{"pending": 0, "sent": 0, "failed": 0}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)
