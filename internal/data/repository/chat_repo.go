package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindByMatchID(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]*entity.ChatMessage, error)
	CountByMatchID(ctx context.Context, matchID uuid.UUID) (int64, error)
}

type chatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewChatRepository(db database.PgxIface, log *zap.Logger) ChatRepository {
	return &chatRepository{
		db:  db,
		log: log.With(zap.String("repository", "chat")),
	}
}

func (r *chatRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, match_id, user_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		message.ID,
		message.MatchID,
		message.UserID,
		message.Message,
		message.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create chat message",
			zap.Error(err),
			zap.String("match_id", message.MatchID.String()),
			zap.String("user_id", message.UserID.String()),
		)
		return fmt.Errorf("create chat message for match %s: %w", message.MatchID.String(), err)
	}

	return nil
}

func (r *chatRepository) FindByMatchID(ctx context.Context, matchID uuid.UUID, limit, offset int) ([]*entity.ChatMessage, error) {
	query := `
		SELECT id, match_id, user_id, message, created_at
		FROM chat_messages
		WHERE match_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, matchID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find chat messages",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
		)
		return nil, fmt.Errorf("find chat messages for match %s: %w", matchID.String(), err)
	}
	defer rows.Close()

	var messages []*entity.ChatMessage
	for rows.Next() {
		var message entity.ChatMessage
		err := rows.Scan(
			&message.ID,
			&message.MatchID,
			&message.UserID,
			&message.Message,
			&message.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan chat message row", zap.Error(err))
			return nil, fmt.Errorf("scan chat message row: %w", err)
		}
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *chatRepository) CountByMatchID(ctx context.Context, matchID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM chat_messages WHERE match_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, matchID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count chat messages",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
		)
		return 0, fmt.Errorf("count chat messages for match %s: %w", matchID.String(), err)
	}

	return count, nil
}
