package repository

import (
	"database/sql"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

type ReplyRepositoryInterface interface {
	Create(r *model.Reply) error
	MarkProcessed(id int) error
	ListUnprocessed(limit int) ([]model.Reply, error)
}

type ReplyRepository struct {
	DB *sql.DB
}

func (repo *ReplyRepository) Create(r *model.Reply) error {
	r.CreatedAt = time.Now()
	query := `
        INSERT INTO replies (reply_uid, message_id, gateway_text_id, from_number, body, intent, processed, received_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `
	return repo.DB.QueryRow(query,
		r.ReplyUID, r.MessageID, r.GatewayTextID, r.FromNumber, r.Body,
		r.Intent, r.Processed, r.ReceivedAt, r.CreatedAt,
	).Scan(&r.ID)
}

func (repo *ReplyRepository) MarkProcessed(id int) error {
	_, err := repo.DB.Exec(`UPDATE replies SET processed=TRUE WHERE id=$1`, id)
	return err
}

// ListUnprocessed returns replies awaiting manual review, oldest first.
func (repo *ReplyRepository) ListUnprocessed(limit int) ([]model.Reply, error) {
	query := `
        SELECT id, reply_uid, message_id, gateway_text_id, from_number, body, intent, processed, received_at, created_at
        FROM replies WHERE processed=FALSE ORDER BY id LIMIT $1
    `
	rows, err := repo.DB.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	replies := []model.Reply{}
	for rows.Next() {
		var r model.Reply
		if err := rows.Scan(
			&r.ID, &r.ReplyUID, &r.MessageID, &r.GatewayTextID, &r.FromNumber,
			&r.Body, &r.Intent, &r.Processed, &r.ReceivedAt, &r.CreatedAt,
		); err != nil {
			return nil, err
		}
		replies = append(replies, r)
	}
	return replies, rows.Err()
}

var _ ReplyRepositoryInterface = (*ReplyRepository)(nil)
