package repository

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MatchRepository interface {
	CreateIn(ctx context.Context, q database.Querier, match *entity.OpenMatch) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.OpenMatch, error)
	// FindByIDForUpdate loads the match row under a FOR UPDATE lock so the
	// capacity check and participant insert race-free within the transaction.
	FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error)
	FindAllOpen(ctx context.Context, after time.Time) ([]*entity.OpenMatch, error)
	FindUpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*entity.OpenMatch, error)
	Update(ctx context.Context, match *entity.OpenMatch) error
	UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error

	AddParticipantIn(ctx context.Context, q database.Querier, participant *entity.MatchParticipant) error
	RemoveParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error)
	CountParticipantsIn(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error)
	IsParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error)
	FindParticipants(ctx context.Context, matchID uuid.UUID) ([]*entity.MatchParticipant, error)
}

type matchRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMatchRepository(db database.PgxIface, log *zap.Logger) MatchRepository {
	return &matchRepository{
		db:  db,
		log: log.With(zap.String("repository", "match")),
	}
}

const matchColumns = `id, court_id, creator_id, category_id, start_time, end_time, players_needed, status, created_at`

func scanMatch(row pgx.Row) (*entity.OpenMatch, error) {
	var match entity.OpenMatch
	err := row.Scan(
		&match.ID,
		&match.CourtID,
		&match.CreatorID,
		&match.CategoryID,
		&match.StartTime,
		&match.EndTime,
		&match.PlayersNeeded,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *matchRepository) CreateIn(ctx context.Context, q database.Querier, match *entity.OpenMatch) error {
	query := `
		INSERT INTO open_matches (id, court_id, creator_id, category_id, start_time, end_time, players_needed, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		match.ID,
		match.CourtID,
		match.CreatorID,
		match.CategoryID,
		match.StartTime,
		match.EndTime,
		match.PlayersNeeded,
		match.Status,
		match.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create open match",
			zap.Error(err),
			zap.String("court_id", match.CourtID.String()),
			zap.String("creator_id", match.CreatorID.String()),
		)
		return fmt.Errorf("create open match %s: %w", match.ID.String(), err)
	}

	return nil
}

func (r *matchRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.OpenMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM open_matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find match by ID",
			zap.Error(err),
			zap.String("match_id", id.String()),
		)
		return nil, fmt.Errorf("find match by ID %s: %w", id.String(), err)
	}

	return match, nil
}

func (r *matchRepository) FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM open_matches WHERE id = $1 FOR UPDATE`

	match, err := scanMatch(q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to lock match row",
			zap.Error(err),
			zap.String("match_id", id.String()),
		)
		return nil, fmt.Errorf("lock match row %s: %w", id.String(), err)
	}

	return match, nil
}

func (r *matchRepository) FindAllOpen(ctx context.Context, after time.Time) ([]*entity.OpenMatch, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM open_matches
		WHERE status = 'open' AND start_time >= $1
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, after)
	if err != nil {
		r.log.Error("Failed to find open matches", zap.Error(err))
		return nil, fmt.Errorf("find open matches: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows, r.log)
}

func (r *matchRepository) FindUpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*entity.OpenMatch, error) {
	query := `
		SELECT m.id, m.court_id, m.creator_id, m.category_id, m.start_time, m.end_time, m.players_needed, m.status, m.created_at
		FROM open_matches m
		JOIN match_participants p ON p.match_id = m.id
		WHERE p.user_id = $1
		  AND m.start_time >= $2
		  AND m.status <> 'cancelled'
		ORDER BY m.start_time
	`

	rows, err := r.db.Query(ctx, query, userID, after)
	if err != nil {
		r.log.Error("Failed to find upcoming matches for user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find upcoming matches for user %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectMatches(rows, r.log)
}

func collectMatches(rows pgx.Rows, log *zap.Logger) ([]*entity.OpenMatch, error) {
	var matches []*entity.OpenMatch
	for rows.Next() {
		match, err := scanMatch(rows)
		if err != nil {
			log.Error("Failed to scan match row", zap.Error(err))
			return nil, fmt.Errorf("scan match row: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		log.Error("Failed to read match rows", zap.Error(err))
		return nil, fmt.Errorf("read match rows: %w", err)
	}
	return matches, nil
}

func (r *matchRepository) Update(ctx context.Context, match *entity.OpenMatch) error {
	query := `
		UPDATE open_matches
		SET court_id = $2, category_id = $3, start_time = $4, end_time = $5,
		    players_needed = $6, status = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		match.ID,
		match.CourtID,
		match.CategoryID,
		match.StartTime,
		match.EndTime,
		match.PlayersNeeded,
		match.Status,
	)

	if err != nil {
		r.log.Error("Failed to update match",
			zap.Error(err),
			zap.String("match_id", match.ID.String()),
		)
		return fmt.Errorf("update match %s: %w", match.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %s not found", match.ID.String())
	}

	return nil
}

func (r *matchRepository) UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error {
	query := `UPDATE open_matches SET status = $2 WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update match status",
			zap.Error(err),
			zap.String("match_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update match %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("match %s not found", id.String())
	}

	return nil
}

func (r *matchRepository) AddParticipantIn(ctx context.Context, q database.Querier, participant *entity.MatchParticipant) error {
	query := `
		INSERT INTO match_participants (match_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`

	_, err := q.Exec(ctx, query,
		participant.MatchID,
		participant.UserID,
		participant.JoinedAt,
	)

	if err != nil {
		r.log.Error("Failed to add participant",
			zap.Error(err),
			zap.String("match_id", participant.MatchID.String()),
			zap.String("user_id", participant.UserID.String()),
		)
		return fmt.Errorf("add participant %s to match %s: %w",
			participant.UserID.String(), participant.MatchID.String(), err)
	}

	return nil
}

func (r *matchRepository) RemoveParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
	query := `DELETE FROM match_participants WHERE match_id = $1 AND user_id = $2`

	result, err := q.Exec(ctx, query, matchID, userID)
	if err != nil {
		r.log.Error("Failed to remove participant",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("remove participant %s from match %s: %w",
			userID.String(), matchID.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *matchRepository) CountParticipantsIn(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM match_participants WHERE match_id = $1`

	var count int
	err := q.QueryRow(ctx, query, matchID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count participants",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
		)
		return 0, fmt.Errorf("count participants for match %s: %w", matchID.String(), err)
	}

	return count, nil
}

func (r *matchRepository) IsParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM match_participants WHERE match_id = $1 AND user_id = $2)`

	// Callers outside a transaction may pass a nil querier.
	if q == nil {
		q = r.db
	}

	var exists bool
	err := q.QueryRow(ctx, query, matchID, userID).Scan(&exists)
	if err != nil {
		r.log.Error("Failed to check participant",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("check participant %s in match %s: %w",
			userID.String(), matchID.String(), err)
	}

	return exists, nil
}

func (r *matchRepository) FindParticipants(ctx context.Context, matchID uuid.UUID) ([]*entity.MatchParticipant, error) {
	query := `
		SELECT match_id, user_id, joined_at
		FROM match_participants
		WHERE match_id = $1
		ORDER BY joined_at
	`

	rows, err := r.db.Query(ctx, query, matchID)
	if err != nil {
		r.log.Error("Failed to find participants",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
		)
		return nil, fmt.Errorf("find participants for match %s: %w", matchID.String(), err)
	}
	defer rows.Close()

	var participants []*entity.MatchParticipant
	for rows.Next() {
		var p entity.MatchParticipant
		if err := rows.Scan(&p.MatchID, &p.UserID, &p.JoinedAt); err != nil {
			r.log.Error("Failed to scan participant row", zap.Error(err))
			return nil, fmt.Errorf("scan participant row: %w", err)
		}
		participants = append(participants, &p)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Failed to read participant rows", zap.Error(err))
		return nil, fmt.Errorf("read participant rows: %w", err)
	}

	return participants, nil
}
