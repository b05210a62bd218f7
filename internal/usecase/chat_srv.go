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
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService interface {
	Send(ctx context.Context, userID, matchID string, req *request.SendMessageRequest) (*response.ChatMessageResponse, error)
	GetForMatch(ctx context.Context, userID, matchID string, pag *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatMessageResponse], error)
}

type chatService struct {
	repo  *repository.Repository
	notif notifier.Notifier
	log   *zap.Logger
}

func NewChatService(repo *repository.Repository, notif notifier.Notifier, log *zap.Logger) ChatService {
	return &chatService{
		repo:  repo,
		notif: notif,
		log:   log.With(zap.String("service", "chat")),
	}
}

// Send posts a message to a match's chat. Participants only, and not after
// the match is cancelled.
func (s *chatService) Send(ctx context.Context, userID, matchID string, req *request.SendMessageRequest) (*response.ChatMessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, apperrors.NewValidation("", utils.FormatValidationErrors(errs))
	}

	userUUID, matchUUID, match, err := s.requireParticipant(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status == entity.MatchStatusCancelled {
		return nil, apperrors.NewConflict("match is cancelled")
	}

	message := &entity.ChatMessage{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		MatchID: matchUUID,
		UserID:  userUUID,
		Message: req.Message,
	}

	if err := s.repo.Chat.Create(ctx, message); err != nil {
		s.log.Error("Failed to save chat message", zap.Error(err), zap.String("match_id", matchID))
		return nil, apperrors.ErrInternal
	}

	resp := response.ChatMessageToResponse(message)

	s.notif.Notify(notifier.ChannelChat, notifier.EventChatMessage, resp)

	return &resp, nil
}

func (s *chatService) GetForMatch(ctx context.Context, userID, matchID string, pag *request.PaginatedRequest) (*response.PaginatedResponse[response.ChatMessageResponse], error) {
	_, matchUUID, _, err := s.requireParticipant(ctx, userID, matchID)
	if err != nil {
		return nil, err
	}

	messages, err := s.repo.Chat.FindByMatchID(ctx, matchUUID, pag.Limit(), pag.Offset())
	if err != nil {
		s.log.Error("Failed to load chat messages", zap.Error(err), zap.String("match_id", matchID))
		return nil, apperrors.ErrInternal
	}

	total, err := s.repo.Chat.CountByMatchID(ctx, matchUUID)
	if err != nil {
		s.log.Error("Failed to count chat messages", zap.Error(err), zap.String("match_id", matchID))
		return nil, apperrors.ErrInternal
	}

	messageResponses := make([]response.ChatMessageResponse, len(messages))
	for i, message := range messages {
		messageResponses[i] = response.ChatMessageToResponse(message)
	}

	return response.NewPaginatedResponse(messageResponses, pag.Page, pag.Limit(), total), nil
}

func (s *chatService) requireParticipant(ctx context.Context, userID, matchID string) (uuid.UUID, uuid.UUID, *entity.OpenMatch, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, apperrors.NewValidation("user_id", "invalid user ID format")
	}

	matchUUID, err := uuid.Parse(matchID)
	if err != nil {
		return uuid.Nil, uuid.Nil, nil, apperrors.NewValidation("match_id", "invalid match ID format")
	}

	match, err := s.repo.Match.FindByID(ctx, matchUUID)
	if err != nil {
		s.log.Error("Failed to find match", zap.Error(err), zap.String("match_id", matchID))
		return uuid.Nil, uuid.Nil, nil, apperrors.ErrInternal
	}
	if match == nil {
		return uuid.Nil, uuid.Nil, nil, apperrors.NewNotFound("match", matchID)
	}

	joined, err := s.repo.Match.IsParticipantIn(ctx, nil, matchUUID, userUUID)
	if err != nil {
		s.log.Error("Failed to check participant", zap.Error(err), zap.String("match_id", matchID))
		return uuid.Nil, uuid.Nil, nil, apperrors.ErrInternal
	}
	if !joined {
		return uuid.Nil, uuid.Nil, nil, apperrors.NewForbidden("only participants can use the match chat")
	}

	return userUUID, matchUUID, match, nil
}
