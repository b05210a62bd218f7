package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/internal/notifier"
	"court-booking/pkg/apperrors"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func testMatch(creator uuid.UUID, playersNeeded int, status entity.MatchStatus) *entity.OpenMatch {
	return &entity.OpenMatch{
		BaseSimple:    entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		CourtID:       uuid.New(),
		CreatorID:     creator,
		CategoryID:    uuid.New(),
		StartTime:     time.Now().Add(48 * time.Hour),
		EndTime:       time.Now().Add(50 * time.Hour),
		PlayersNeeded: playersNeeded,
		Status:        status,
	}
}

func TestCreateMatch_CreatorJoinsAutomatically(t *testing.T) {
	creator := uuid.New()
	court := testCourt()
	category := &entity.MatchCategory{BaseSimple: entity.BaseSimple{ID: uuid.New()}, Name: "5v5"}

	var addedParticipant *entity.MatchParticipant
	repo := &repository.Repository{
		Court: &mockCourtRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
				return court, nil
			},
		},
		MatchCategory: &mockCategoryRepo{
			findByIDFunc: func(ctx context.Context, id uuid.UUID) (*entity.MatchCategory, error) {
				return category, nil
			},
		},
		Match: &mockMatchRepo{
			addParticipantInFunc: func(ctx context.Context, q database.Querier, p *entity.MatchParticipant) error {
				addedParticipant = p
				return nil
			},
		},
		User: &mockUserRepo{},
	}
	service := NewMatchService(&fakeDB{}, repo, notifier.NopNotifier{}, zap.NewNop())

	req := &request.CreateMatchRequest{
		CourtID:       court.ID.String(),
		CategoryID:    category.ID.String(),
		StartTime:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		EndTime:       time.Now().Add(50 * time.Hour).Format(time.RFC3339),
		PlayersNeeded: 9,
	}

	resp, err := service.Create(context.Background(), creator.String(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if addedParticipant == nil {
		t.Fatal("creator was not added as a participant")
	}
	if addedParticipant.UserID != creator {
		t.Errorf("expected creator %s as participant, got %s", creator, addedParticipant.UserID)
	}
	if resp.Status != entity.MatchStatusOpen {
		t.Errorf("new match should be open, got %s", resp.Status)
	}
	if resp.PlayersJoined != 1 {
		t.Errorf("new match should count 1 joined player, got %d", resp.PlayersJoined)
	}
	if resp.Capacity != 10 {
		t.Errorf("expected capacity 10 for 9 players needed, got %d", resp.Capacity)
	}
}

func matchTestRepo(match *entity.OpenMatch, mock *mockMatchRepo) *repository.Repository {
	if mock.findByIDForUpdateFunc == nil {
		mock.findByIDForUpdateFunc = func(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error) {
			return match, nil
		}
	}
	return &repository.Repository{
		Match:         mock,
		Court:         &mockCourtRepo{},
		MatchCategory: &mockCategoryRepo{},
		User:          &mockUserRepo{},
	}
}

func TestJoinMatch_Success(t *testing.T) {
	creator := uuid.New()
	joiner := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)

	var added *entity.MatchParticipant
	mock := &mockMatchRepo{
		countParticipantsInFunc: func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
			return 1, nil
		},
		addParticipantInFunc: func(ctx context.Context, q database.Querier, p *entity.MatchParticipant) error {
			added = p
			return nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	resp, err := service.Join(context.Background(), joiner.String(), match.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added == nil || added.UserID != joiner {
		t.Fatal("joiner was not added as a participant")
	}
	if resp.Status != entity.MatchStatusOpen {
		t.Errorf("match with 2 of 5 players should stay open, got %s", resp.Status)
	}
}

func TestJoinMatch_LastSlotFlipsFull(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 1, entity.MatchStatusOpen)

	var statusSet entity.MatchStatus
	mock := &mockMatchRepo{
		countParticipantsInFunc: func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
			return 1, nil
		},
		updateStatusInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error {
			statusSet = status
			return nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	resp, err := service.Join(context.Background(), uuid.New().String(), match.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if statusSet != entity.MatchStatusFull {
		t.Errorf("filling the last slot should mark the match full, got %q", statusSet)
	}
	if resp.Status != entity.MatchStatusFull {
		t.Errorf("expected full in response, got %s", resp.Status)
	}
}

func TestJoinMatch_EventCarriesParticipants(t *testing.T) {
	creator := uuid.New()
	joiner := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)

	mock := &mockMatchRepo{
		countParticipantsInFunc: func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
			return 1, nil
		},
		findParticipantsFunc: func(ctx context.Context, matchID uuid.UUID) ([]*entity.MatchParticipant, error) {
			return []*entity.MatchParticipant{
				{MatchID: match.ID, UserID: creator, JoinedAt: time.Now()},
				{MatchID: match.ID, UserID: joiner, JoinedAt: time.Now()},
			}, nil
		},
	}
	notif := &recordingNotifier{}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notif, zap.NewNop())

	if _, err := service.Join(context.Background(), joiner.String(), match.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	event, ok := notif.find(notifier.EventMatchJoined)
	if !ok {
		t.Fatal("no join event was published")
	}
	roster, ok := event.payload["participants"].([]response.ParticipantResponse)
	if !ok {
		t.Fatal("join event payload is missing the participant list")
	}
	if len(roster) != 2 {
		t.Errorf("expected 2 participants in the event payload, got %d", len(roster))
	}
}

func TestJoinMatch_AlreadyJoined(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)

	mock := &mockMatchRepo{
		isParticipantInFunc: func(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
			return true, nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	_, err := service.Join(context.Background(), creator.String(), match.ID.String())
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict for double join, got %v", err)
	}
}

func TestJoinMatch_NotOpen(t *testing.T) {
	for _, status := range []entity.MatchStatus{entity.MatchStatusFull, entity.MatchStatusCancelled, entity.MatchStatusCompleted} {
		match := testMatch(uuid.New(), 4, status)
		service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

		_, err := service.Join(context.Background(), uuid.New().String(), match.ID.String())
		if !apperrors.IsConflict(err) {
			t.Errorf("joining a %s match should conflict, got %v", status, err)
		}
	}
}

// TestJoinMatch_ConcurrentLastSlot races several joins for a single remaining
// slot. The transaction serialization must let exactly one through.
func TestJoinMatch_ConcurrentLastSlot(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 1, entity.MatchStatusOpen)

	// Shared state, only touched inside transactions, which fakeDB serializes.
	participants := map[uuid.UUID]bool{creator: true}

	mock := &mockMatchRepo{
		findByIDForUpdateFunc: func(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error) {
			copied := *match
			return &copied, nil
		},
		isParticipantInFunc: func(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
			return participants[userID], nil
		},
		countParticipantsInFunc: func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
			return len(participants), nil
		},
		addParticipantInFunc: func(ctx context.Context, q database.Querier, p *entity.MatchParticipant) error {
			participants[p.UserID] = true
			return nil
		},
		updateStatusInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error {
			match.Status = status
			return nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	const racers = 8
	var wg sync.WaitGroup
	errs := make(chan error, racers)

	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Join(context.Background(), uuid.New().String(), match.ID.String())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var winners, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			winners++
		case apperrors.IsConflict(err):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if winners != 1 {
		t.Errorf("expected exactly 1 successful join, got %d", winners)
	}
	if conflicts != racers-1 {
		t.Errorf("expected %d conflicts, got %d", racers-1, conflicts)
	}
	if len(participants) != 2 {
		t.Errorf("expected 2 participants after the race, got %d", len(participants))
	}
}

func TestLeaveMatch_CreatorForbidden(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

	err := service.Leave(context.Background(), creator.String(), match.ID.String())
	if !apperrors.IsForbidden(err) {
		t.Fatalf("creator leaving own match should be forbidden, got %v", err)
	}
}

func TestLeaveMatch_ReopensFullMatch(t *testing.T) {
	creator := uuid.New()
	leaver := uuid.New()
	match := testMatch(creator, 1, entity.MatchStatusFull)

	var statusSet entity.MatchStatus
	mock := &mockMatchRepo{
		removeParticipantInFunc: func(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
			return true, nil
		},
		updateStatusInFunc: func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error {
			statusSet = status
			return nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	if err := service.Leave(context.Background(), leaver.String(), match.ID.String()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if statusSet != entity.MatchStatusOpen {
		t.Errorf("leaving a full match should reopen it, got %q", statusSet)
	}
}

func TestLeaveMatch_NotAParticipant(t *testing.T) {
	match := testMatch(uuid.New(), 4, entity.MatchStatusOpen)
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

	err := service.Leave(context.Background(), uuid.New().String(), match.ID.String())
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected conflict for a stranger leaving, got %v", err)
	}
}

func TestRemoveParticipant_CreatorOnly(t *testing.T) {
	creator := uuid.New()
	target := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

	req := &request.RemoveParticipantRequest{UserID: target.String()}
	err := service.RemoveParticipant(context.Background(), uuid.New().String(), match.ID.String(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("non-creator removing a participant should be forbidden, got %v", err)
	}
}

func TestRemoveParticipant_CreatorCannotRemoveSelf(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

	req := &request.RemoveParticipantRequest{UserID: creator.String()}
	err := service.RemoveParticipant(context.Background(), creator.String(), match.ID.String(), req)
	if !apperrors.IsForbidden(err) {
		t.Fatalf("creator removing themselves should be forbidden, got %v", err)
	}
}

func TestUpdateMatch_PlayersNeededBelowHeadcount(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)

	mock := &mockMatchRepo{
		countParticipantsInFunc: func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
			return 4, nil
		},
	}
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, mock), notifier.NopNotifier{}, zap.NewNop())

	two := 2
	req := &request.UpdateMatchRequest{PlayersNeeded: &two}
	_, err := service.Update(context.Background(), creator.String(), match.ID.String(), req)
	if !apperrors.IsValidation(err) {
		t.Fatalf("shrinking below headcount should fail validation, got %v", err)
	}
}

func TestCancelMatch_Permissions(t *testing.T) {
	creator := uuid.New()
	match := testMatch(creator, 4, entity.MatchStatusOpen)
	service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

	err := service.Cancel(context.Background(), uuid.New().String(), false, match.ID.String())
	if !apperrors.IsForbidden(err) {
		t.Fatalf("stranger cancelling should be forbidden, got %v", err)
	}

	if err := service.Cancel(context.Background(), uuid.New().String(), true, match.ID.String()); err != nil {
		t.Fatalf("admin cancel failed: %v", err)
	}
	if err := service.Cancel(context.Background(), creator.String(), false, match.ID.String()); err != nil {
		t.Fatalf("creator cancel failed: %v", err)
	}
}

func TestCancelMatch_TerminalStates(t *testing.T) {
	creator := uuid.New()
	for _, status := range []entity.MatchStatus{entity.MatchStatusCancelled, entity.MatchStatusCompleted} {
		match := testMatch(creator, 4, status)
		service := NewMatchService(&fakeDB{}, matchTestRepo(match, &mockMatchRepo{}), notifier.NopNotifier{}, zap.NewNop())

		err := service.Cancel(context.Background(), creator.String(), false, match.ID.String())
		if !apperrors.IsInvalidTransition(err) {
			t.Errorf("cancelling a %s match should be an invalid transition, got %v", status, err)
		}
	}
}
