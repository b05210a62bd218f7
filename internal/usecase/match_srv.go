package usecase

import (
	"context"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/notifier"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MatchService interface {
	Create(ctx context.Context, userID string, req *request.CreateMatchRequest) (*response.MatchResponse, error)
	GetByID(ctx context.Context, matchID string) (*response.MatchResponse, error)
	GetAllOpen(ctx context.Context) ([]response.MatchResponse, error)
	GetUpcomingForUser(ctx context.Context, userID string) ([]response.MatchResponse, error)
	GetCategories(ctx context.Context) ([]response.MatchCategoryResponse, error)

	Join(ctx context.Context, userID, matchID string) (*response.MatchResponse, error)
	Leave(ctx context.Context, userID, matchID string) error
	RemoveParticipant(ctx context.Context, callerID, matchID string, req *request.RemoveParticipantRequest) error
	Update(ctx context.Context, userID, matchID string, req *request.UpdateMatchRequest) (*response.MatchResponse, error)
	Cancel(ctx context.Context, userID string, isAdmin bool, matchID string) error
}

type matchService struct {
	db    database.PgxIface
	repo  *repository.Repository
	notif notifier.Notifier
	log   *zap.Logger
}

func NewMatchService(db database.PgxIface, repo *repository.Repository, notif notifier.Notifier, log *zap.Logger) MatchService {
	return &matchService{
		db:    db,
		repo:  repo,
		notif: notif,
		log:   log.With(zap.String("service", "match")),
	}
}

func (s *matchService) Create(ctx context.Context, userID string, req *request.CreateMatchRequest) (*response.MatchResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create match validation failed", zap.Any("errors", errs))
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	courtUUID, err := uuid.Parse(req.CourtID)
	if err != nil {
		return nil, apperrors.NewValidation("court_id", "invalid court ID format")
	}

	categoryUUID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperrors.NewValidation("category_id", "invalid category ID format")
	}

	start, err := utils.ParseISOTime(req.StartTime)
	if err != nil {
		return nil, apperrors.NewValidation("start_time", "must be an RFC3339 timestamp")
	}
	end, err := utils.ParseISOTime(req.EndTime)
	if err != nil {
		return nil, apperrors.NewValidation("end_time", "must be an RFC3339 timestamp")
	}
	if !end.After(start) {
		return nil, apperrors.NewValidation("end_time", "must be after start_time")
	}
	if start.Before(time.Now()) {
		return nil, apperrors.NewValidation("start_time", "must be in the future")
	}

	court, err := s.repo.Court.FindByID(ctx, courtUUID)
	if err != nil {
		s.log.Error("Failed to find court", zap.Error(err), zap.String("court_id", req.CourtID))
		return nil, apperrors.ErrInternal
	}
	if court == nil {
		return nil, apperrors.NewNotFound("court", req.CourtID)
	}
	if !court.IsActive {
		return nil, apperrors.NewConflict("court is not active")
	}

	category, err := s.repo.MatchCategory.FindByID(ctx, categoryUUID)
	if err != nil {
		s.log.Error("Failed to find category", zap.Error(err), zap.String("category_id", req.CategoryID))
		return nil, apperrors.ErrInternal
	}
	if category == nil {
		return nil, apperrors.NewNotFound("match category", req.CategoryID)
	}

	now := time.Now()
	match := &entity.OpenMatch{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		CourtID:       courtUUID,
		CreatorID:     userUUID,
		CategoryID:    categoryUUID,
		StartTime:     start,
		EndTime:       end,
		PlayersNeeded: req.PlayersNeeded,
		Status:        entity.MatchStatusOpen,
	}

	// The creator joins their own match at creation.
	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		if err := s.repo.Match.CreateIn(ctx, q, match); err != nil {
			s.log.Error("Failed to create match", zap.Error(err))
			return apperrors.ErrInternal
		}

		participant := &entity.MatchParticipant{
			MatchID:  match.ID,
			UserID:   userUUID,
			JoinedAt: now,
		}
		if err := s.repo.Match.AddParticipantIn(ctx, q, participant); err != nil {
			s.log.Error("Failed to add creator as participant", zap.Error(err))
			return apperrors.ErrInternal
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Match created",
		zap.String("match_id", match.ID.String()),
		zap.String("creator_id", userID),
		zap.Int("players_needed", req.PlayersNeeded),
	)

	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchCreated, map[string]any{
		"match_id":       match.ID.String(),
		"court_id":       req.CourtID,
		"category":       category.Name,
		"start_time":     start,
		"players_needed": req.PlayersNeeded,
	})

	resp := response.MatchToResponse(match, 1)
	resp.CourtName = court.Name
	resp.CategoryName = category.Name
	return &resp, nil
}

func (s *matchService) GetByID(ctx context.Context, matchID string) (*response.MatchResponse, error) {
	match, err := s.findMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	return s.buildMatchResponse(ctx, match)
}

func (s *matchService) GetAllOpen(ctx context.Context) ([]response.MatchResponse, error) {
	matches, err := s.repo.Match.FindAllOpen(ctx, time.Now())
	if err != nil {
		s.log.Error("Failed to list open matches", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	return s.buildMatchResponses(ctx, matches)
}

func (s *matchService) GetUpcomingForUser(ctx context.Context, userID string) ([]response.MatchResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matches, err := s.repo.Match.FindUpcomingForUser(ctx, userUUID, time.Now())
	if err != nil {
		s.log.Error("Failed to list upcoming matches", zap.Error(err), zap.String("user_id", userID))
		return nil, apperrors.ErrInternal
	}

	return s.buildMatchResponses(ctx, matches)
}

func (s *matchService) GetCategories(ctx context.Context) ([]response.MatchCategoryResponse, error) {
	categories, err := s.repo.MatchCategory.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to list match categories", zap.Error(err))
		return nil, apperrors.ErrInternal
	}

	categoryResponses := make([]response.MatchCategoryResponse, len(categories))
	for i, category := range categories {
		categoryResponses[i] = response.MatchCategoryToResponse(category)
	}

	return categoryResponses, nil
}

// Join adds the user to a match. The match row is locked FOR UPDATE for the
// whole check-then-insert sequence, so concurrent joins for the last slot
// serialize and exactly one wins.
func (s *matchService) Join(ctx context.Context, userID, matchID string) (*response.MatchResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return nil, apperrors.NewValidation("match_id", "invalid match ID format")
	}

	var match *entity.OpenMatch
	var became entity.MatchStatus

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		match, err = s.repo.Match.FindByIDForUpdate(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to lock match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if match == nil {
			return apperrors.NewNotFound("match", matchID)
		}
		if match.Status != entity.MatchStatusOpen {
			return apperrors.NewConflict("match is not open for joining")
		}

		joined, err := s.repo.Match.IsParticipantIn(ctx, q, matchUUID, userUUID)
		if err != nil {
			s.log.Error("Failed to check participant", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if joined {
			return apperrors.NewConflict("already joined this match")
		}

		count, err := s.repo.Match.CountParticipantsIn(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to count participants", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if count >= match.Capacity() {
			return apperrors.NewConflict("match is full")
		}

		participant := &entity.MatchParticipant{
			MatchID:  matchUUID,
			UserID:   userUUID,
			JoinedAt: time.Now(),
		}
		if err := s.repo.Match.AddParticipantIn(ctx, q, participant); err != nil {
			s.log.Error("Failed to add participant", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}

		if count+1 == match.Capacity() {
			if err := s.repo.Match.UpdateStatusIn(ctx, q, matchUUID, entity.MatchStatusFull); err != nil {
				s.log.Error("Failed to mark match full", zap.Error(err), zap.String("match_id", matchID))
				return apperrors.ErrInternal
			}
			match.Status = entity.MatchStatusFull
			became = entity.MatchStatusFull
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("User joined match",
		zap.String("match_id", matchID),
		zap.String("user_id", userID),
		zap.String("status", string(match.Status)),
	)

	participants := s.participantList(ctx, matchUUID)
	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchJoined, map[string]any{
		"match_id":     matchID,
		"user_id":      userID,
		"participants": participants,
	})
	if became == entity.MatchStatusFull {
		s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchFull, map[string]any{
			"match_id":     matchID,
			"participants": participants,
		})
	}

	return s.buildMatchResponse(ctx, match)
}

// Leave removes the caller from a match. The creator cannot leave their own
// match; they cancel it instead. Leaving a full match reopens it.
func (s *matchService) Leave(ctx context.Context, userID, matchID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return apperrors.NewValidation("match_id", "invalid match ID format")
	}

	var reopened bool

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		match, err := s.repo.Match.FindByIDForUpdate(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to lock match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if match == nil {
			return apperrors.NewNotFound("match", matchID)
		}
		if match.CreatorID == userUUID {
			return apperrors.NewForbidden("creator cannot leave their own match")
		}
		if match.Status == entity.MatchStatusCancelled || match.Status == entity.MatchStatusCompleted {
			return apperrors.NewConflict("match is no longer active")
		}

		removed, err := s.repo.Match.RemoveParticipantIn(ctx, q, matchUUID, userUUID)
		if err != nil {
			s.log.Error("Failed to remove participant", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if !removed {
			return apperrors.NewConflict("not a participant of this match")
		}

		if match.Status == entity.MatchStatusFull {
			if err := s.repo.Match.UpdateStatusIn(ctx, q, matchUUID, entity.MatchStatusOpen); err != nil {
				s.log.Error("Failed to reopen match", zap.Error(err), zap.String("match_id", matchID))
				return apperrors.ErrInternal
			}
			reopened = true
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("User left match",
		zap.String("match_id", matchID),
		zap.String("user_id", userID),
	)

	participants := s.participantList(ctx, matchUUID)
	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchLeft, map[string]any{
		"match_id":     matchID,
		"user_id":      userID,
		"participants": participants,
	})
	if reopened {
		s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchReopened, map[string]any{
			"match_id":     matchID,
			"participants": participants,
		})
	}

	return nil
}

// RemoveParticipant lets the creator kick another participant. The creator
// cannot remove themselves.
func (s *matchService) RemoveParticipant(ctx context.Context, callerID, matchID string, req *request.RemoveParticipantRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	callerUUID, err := uuid.Parse(callerID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return apperrors.NewValidation("match_id", "invalid match ID format")
	}

	targetUUID, err := uuid.Parse(req.UserID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	var reopened bool

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		match, err := s.repo.Match.FindByIDForUpdate(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to lock match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if match == nil {
			return apperrors.NewNotFound("match", matchID)
		}
		if match.CreatorID != callerUUID {
			return apperrors.NewForbidden("only the match creator can remove participants")
		}
		if targetUUID == callerUUID {
			return apperrors.NewForbidden("creator cannot remove themselves")
		}
		if match.Status == entity.MatchStatusCancelled || match.Status == entity.MatchStatusCompleted {
			return apperrors.NewConflict("match is no longer active")
		}

		removed, err := s.repo.Match.RemoveParticipantIn(ctx, q, matchUUID, targetUUID)
		if err != nil {
			s.log.Error("Failed to remove participant", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if !removed {
			return apperrors.NewNotFound("participant", req.UserID)
		}

		if match.Status == entity.MatchStatusFull {
			if err := s.repo.Match.UpdateStatusIn(ctx, q, matchUUID, entity.MatchStatusOpen); err != nil {
				s.log.Error("Failed to reopen match", zap.Error(err), zap.String("match_id", matchID))
				return apperrors.ErrInternal
			}
			reopened = true
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Participant removed from match",
		zap.String("match_id", matchID),
		zap.String("removed_user_id", req.UserID),
		zap.String("by", callerID),
	)

	participants := s.participantList(ctx, matchUUID)
	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchLeft, map[string]any{
		"match_id":     matchID,
		"user_id":      req.UserID,
		"removed":      true,
		"participants": participants,
	})
	if reopened {
		s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchReopened, map[string]any{
			"match_id":     matchID,
			"participants": participants,
		})
	}

	return nil
}

// Update edits match details. Creator-only. Changing players_needed
// re-evaluates the open/full status against the current headcount.
func (s *matchService) Update(ctx context.Context, userID, matchID string, req *request.UpdateMatchRequest) (*response.MatchResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return nil, apperrors.NewValidation("match_id", "invalid match ID format")
	}

	var match *entity.OpenMatch

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		match, err = s.repo.Match.FindByIDForUpdate(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to lock match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if match == nil {
			return apperrors.NewNotFound("match", matchID)
		}
		if match.CreatorID != userUUID {
			return apperrors.NewForbidden("only the match creator can edit the match")
		}
		if match.Status == entity.MatchStatusCancelled || match.Status == entity.MatchStatusCompleted {
			return apperrors.NewConflict("match is no longer active")
		}

		if req.CategoryID != nil {
			categoryUUID, err := uuid.Parse(*req.CategoryID)
			if err != nil {
				return apperrors.NewValidation("category_id", "invalid category ID format")
			}
			category, err := s.repo.MatchCategory.FindByID(ctx, categoryUUID)
			if err != nil {
				s.log.Error("Failed to find category", zap.Error(err))
				return apperrors.ErrInternal
			}
			if category == nil {
				return apperrors.NewNotFound("match category", *req.CategoryID)
			}
			match.CategoryID = categoryUUID
		}

		start, end := match.StartTime, match.EndTime
		if req.StartTime != nil {
			start, err = utils.ParseISOTime(*req.StartTime)
			if err != nil {
				return apperrors.NewValidation("start_time", "must be an RFC3339 timestamp")
			}
		}
		if req.EndTime != nil {
			end, err = utils.ParseISOTime(*req.EndTime)
			if err != nil {
				return apperrors.NewValidation("end_time", "must be an RFC3339 timestamp")
			}
		}
		if !end.After(start) {
			return apperrors.NewValidation("end_time", "must be after start_time")
		}
		match.StartTime, match.EndTime = start, end

		if req.PlayersNeeded != nil {
			count, err := s.repo.Match.CountParticipantsIn(ctx, q, matchUUID)
			if err != nil {
				s.log.Error("Failed to count participants", zap.Error(err))
				return apperrors.ErrInternal
			}

			newCapacity := *req.PlayersNeeded + 1
			if newCapacity < count {
				return apperrors.NewValidation("players_needed", "below current participant count")
			}

			match.PlayersNeeded = *req.PlayersNeeded
			switch {
			case count == newCapacity && match.Status == entity.MatchStatusOpen:
				match.Status = entity.MatchStatusFull
			case count < newCapacity && match.Status == entity.MatchStatusFull:
				match.Status = entity.MatchStatusOpen
			}
		}

		if err := s.repo.Match.Update(ctx, match); err != nil {
			s.log.Error("Failed to update match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Match updated", zap.String("match_id", matchID))

	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchUpdated, map[string]any{
		"match_id":     matchID,
		"participants": s.participantList(ctx, matchUUID),
	})

	return s.buildMatchResponse(ctx, match)
}

func (s *matchService) Cancel(ctx context.Context, userID string, isAdmin bool, matchID string) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return apperrors.NewValidation("match_id", "invalid match ID format")
	}

	err = database.WithTx(ctx, s.db, func(q database.Querier) error {
		match, err := s.repo.Match.FindByIDForUpdate(ctx, q, matchUUID)
		if err != nil {
			s.log.Error("Failed to lock match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}
		if match == nil {
			return apperrors.NewNotFound("match", matchID)
		}
		if match.CreatorID != userUUID && !isAdmin {
			return apperrors.NewForbidden("only the match creator can cancel the match")
		}
		if match.Status == entity.MatchStatusCancelled || match.Status == entity.MatchStatusCompleted {
			return apperrors.NewInvalidTransition(string(match.Status), string(entity.MatchStatusCancelled))
		}

		if err := s.repo.Match.UpdateStatusIn(ctx, q, matchUUID, entity.MatchStatusCancelled); err != nil {
			s.log.Error("Failed to cancel match", zap.Error(err), zap.String("match_id", matchID))
			return apperrors.ErrInternal
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Match cancelled",
		zap.String("match_id", matchID),
		zap.String("by", userID),
	)

	s.notif.Notify(notifier.ChannelMatches, notifier.EventMatchCancelled, map[string]any{
		"match_id": matchID,
	})

	return nil
}

func (s *matchService) findMatch(ctx context.Context, matchID string) (*entity.OpenMatch, error) {
	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return nil, apperrors.NewValidation("match_id", "invalid match ID format")
	}

	match, err := s.repo.Match.FindByID(ctx, matchUUID)
	if err != nil {
		s.log.Error("Failed to find match", zap.Error(err), zap.String("match_id", matchID))
		return nil, apperrors.ErrInternal
	}
	if match == nil {
		return nil, apperrors.NewNotFound("match", matchID)
	}

	return match, nil
}

// participantList loads the current roster for event payloads. Events are
// best-effort, so a load failure degrades to an empty list instead of
// failing the already-committed mutation.
func (s *matchService) participantList(ctx context.Context, matchID uuid.UUID) []response.ParticipantResponse {
	participants, err := s.repo.Match.FindParticipants(ctx, matchID)
	if err != nil {
		s.log.Error("Failed to load participants for event",
			zap.Error(err),
			zap.String("match_id", matchID.String()),
		)
		return nil
	}

	list := make([]response.ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		list = append(list, response.ParticipantToResponse(p))
	}
	return list
}

func (s *matchService) buildMatchResponse(ctx context.Context, match *entity.OpenMatch) (*response.MatchResponse, error) {
	participants, err := s.repo.Match.FindParticipants(ctx, match.ID)
	if err != nil {
		s.log.Error("Failed to load participants", zap.Error(err), zap.String("match_id", match.ID.String()))
		return nil, apperrors.ErrInternal
	}

	resp := response.MatchToResponse(match, len(participants))

	for _, p := range participants {
		pr := response.ParticipantToResponse(p)
		if user, err := s.repo.User.FindByID(ctx, p.UserID); err == nil && user != nil {
			pr.Username = user.Username
		}
		resp.Participants = append(resp.Participants, pr)
	}

	if court, err := s.repo.Court.FindByID(ctx, match.CourtID); err == nil && court != nil {
		resp.CourtName = court.Name
	}
	if category, err := s.repo.MatchCategory.FindByID(ctx, match.CategoryID); err == nil && category != nil {
		resp.CategoryName = category.Name
	}

	return &resp, nil
}

func (s *matchService) buildMatchResponses(ctx context.Context, matches []*entity.OpenMatch) ([]response.MatchResponse, error) {
	matchResponses := make([]response.MatchResponse, 0, len(matches))
	for _, match := range matches {
		resp, err := s.buildMatchResponse(ctx, match)
		if err != nil {
			return nil, err
		}
		matchResponses = append(matchResponses, *resp)
	}
	return matchResponses, nil
}
