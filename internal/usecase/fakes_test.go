package usecase

import (
	"context"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeDB satisfies database.PgxIface for service tests. Begin takes a global
// mutex held until Commit/Rollback, which mirrors how the FOR UPDATE row
// locks serialize conflicting transactions in production.
type fakeDB struct {
	mu sync.Mutex
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	db.mu.Lock()
	return &fakeTx{db: db}, nil
}

func (db *fakeDB) Ping(ctx context.Context) error { return nil }
func (db *fakeDB) Close()                         {}

type fakeTx struct {
	db   *fakeDB
	done bool
}

func (t *fakeTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }

func (t *fakeTx) Commit(ctx context.Context) error {
	if !t.done {
		t.done = true
		t.db.mu.Unlock()
	}
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.done {
		t.done = true
		t.db.mu.Unlock()
	}
	return nil
}

func (t *fakeTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *fakeTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }

func (t *fakeTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}

func (t *fakeTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *fakeTx) Conn() *pgx.Conn                                               { return nil }

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	channel string
	event   string
	payload map[string]any
}

func (n *recordingNotifier) Notify(channel, event string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	m, _ := payload.(map[string]any)
	n.events = append(n.events, recordedEvent{channel: channel, event: event, payload: m})
}

func (n *recordingNotifier) find(event string) (recordedEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, e := range n.events {
		if e.event == event {
			return e, true
		}
	}
	return recordedEvent{}, false
}

// Mock repositories. Unset funcs return zero values.

type mockBookingRepo struct {
	createInFunc          func(ctx context.Context, q database.Querier, booking *entity.Booking) error
	findByIDFunc          func(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	findAllFunc           func(ctx context.Context, opts repository.BookingQueryOptions) ([]*entity.Booking, error)
	countAllFunc          func(ctx context.Context, opts repository.BookingQueryOptions) (int64, error)
	updateFunc            func(ctx context.Context, booking *entity.Booking) error
	updateStatusInFunc    func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error
	setPaymentInFunc      func(ctx context.Context, q database.Querier, bookingID, paymentID uuid.UUID) error
	findOverlappingFunc   func(ctx context.Context, q database.Querier, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	findActiveInRangeFunc func(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
}

func (m *mockBookingRepo) CreateIn(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	if m.createInFunc != nil {
		return m.createInFunc(ctx, q, booking)
	}
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindAll(ctx context.Context, opts repository.BookingQueryOptions) ([]*entity.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockBookingRepo) CountAll(ctx context.Context, opts repository.BookingQueryOptions) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *entity.Booking) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepo) UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
	if m.updateStatusInFunc != nil {
		return m.updateStatusInFunc(ctx, q, id, status)
	}
	return nil
}

func (m *mockBookingRepo) SetPaymentIn(ctx context.Context, q database.Querier, bookingID, paymentID uuid.UUID) error {
	if m.setPaymentInFunc != nil {
		return m.setPaymentInFunc(ctx, q, bookingID, paymentID)
	}
	return nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, q database.Querier, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	if m.findOverlappingFunc != nil {
		return m.findOverlappingFunc(ctx, q, courtID, start, end, excludeID)
	}
	return nil, nil
}

func (m *mockBookingRepo) FindActiveInRange(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	if m.findActiveInRangeFunc != nil {
		return m.findActiveInRangeFunc(ctx, courtID, start, end)
	}
	return nil, nil
}

type mockCourtRepo struct {
	createFunc    func(ctx context.Context, court *entity.Court) error
	findByIDFunc  func(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	findAllFunc   func(ctx context.Context, opts repository.CourtQueryOptions) ([]*entity.Court, error)
	countAllFunc  func(ctx context.Context, opts repository.CourtQueryOptions) (int64, error)
	updateFunc    func(ctx context.Context, court *entity.Court) error
	setActiveFunc func(ctx context.Context, id uuid.UUID, active bool) error
	deleteFunc    func(ctx context.Context, id uuid.UUID) error
	lockRowFunc   func(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)
}

func (m *mockCourtRepo) Create(ctx context.Context, court *entity.Court) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, court)
	}
	return nil
}

func (m *mockCourtRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCourtRepo) FindAll(ctx context.Context, opts repository.CourtQueryOptions) ([]*entity.Court, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockCourtRepo) CountAll(ctx context.Context, opts repository.CourtQueryOptions) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx, opts)
	}
	return 0, nil
}

func (m *mockCourtRepo) Update(ctx context.Context, court *entity.Court) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, court)
	}
	return nil
}

func (m *mockCourtRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *mockCourtRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCourtRepo) LockRow(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	if m.lockRowFunc != nil {
		return m.lockRowFunc(ctx, q, id)
	}
	return true, nil
}

type mockCourtImageRepo struct {
	createFunc          func(ctx context.Context, image *entity.CourtImage) error
	findByCourtIDFunc   func(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtImage, error)
	deleteFunc          func(ctx context.Context, id uuid.UUID) error
	deleteByCourtIDFunc func(ctx context.Context, courtID uuid.UUID) error
}

func (m *mockCourtImageRepo) Create(ctx context.Context, image *entity.CourtImage) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, image)
	}
	return nil
}

func (m *mockCourtImageRepo) FindByCourtID(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtImage, error) {
	if m.findByCourtIDFunc != nil {
		return m.findByCourtIDFunc(ctx, courtID)
	}
	return nil, nil
}

func (m *mockCourtImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockCourtImageRepo) DeleteByCourtID(ctx context.Context, courtID uuid.UUID) error {
	if m.deleteByCourtIDFunc != nil {
		return m.deleteByCourtIDFunc(ctx, courtID)
	}
	return nil
}

type mockMatchRepo struct {
	createInFunc            func(ctx context.Context, q database.Querier, match *entity.OpenMatch) error
	findByIDFunc            func(ctx context.Context, id uuid.UUID) (*entity.OpenMatch, error)
	findByIDForUpdateFunc   func(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error)
	findAllOpenFunc         func(ctx context.Context, after time.Time) ([]*entity.OpenMatch, error)
	findUpcomingForUserFunc func(ctx context.Context, userID uuid.UUID, after time.Time) ([]*entity.OpenMatch, error)
	updateFunc              func(ctx context.Context, match *entity.OpenMatch) error
	updateStatusInFunc      func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error
	addParticipantInFunc    func(ctx context.Context, q database.Querier, participant *entity.MatchParticipant) error
	removeParticipantInFunc func(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error)
	countParticipantsInFunc func(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error)
	isParticipantInFunc     func(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error)
	findParticipantsFunc    func(ctx context.Context, matchID uuid.UUID) ([]*entity.MatchParticipant, error)
}

func (m *mockMatchRepo) CreateIn(ctx context.Context, q database.Querier, match *entity.OpenMatch) error {
	if m.createInFunc != nil {
		return m.createInFunc(ctx, q, match)
	}
	return nil
}

func (m *mockMatchRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.OpenMatch, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMatchRepo) FindByIDForUpdate(ctx context.Context, q database.Querier, id uuid.UUID) (*entity.OpenMatch, error) {
	if m.findByIDForUpdateFunc != nil {
		return m.findByIDForUpdateFunc(ctx, q, id)
	}
	return nil, nil
}

func (m *mockMatchRepo) FindAllOpen(ctx context.Context, after time.Time) ([]*entity.OpenMatch, error) {
	if m.findAllOpenFunc != nil {
		return m.findAllOpenFunc(ctx, after)
	}
	return nil, nil
}

func (m *mockMatchRepo) FindUpcomingForUser(ctx context.Context, userID uuid.UUID, after time.Time) ([]*entity.OpenMatch, error) {
	if m.findUpcomingForUserFunc != nil {
		return m.findUpcomingForUserFunc(ctx, userID, after)
	}
	return nil, nil
}

func (m *mockMatchRepo) Update(ctx context.Context, match *entity.OpenMatch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, match)
	}
	return nil
}

func (m *mockMatchRepo) UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.MatchStatus) error {
	if m.updateStatusInFunc != nil {
		return m.updateStatusInFunc(ctx, q, id, status)
	}
	return nil
}

func (m *mockMatchRepo) AddParticipantIn(ctx context.Context, q database.Querier, participant *entity.MatchParticipant) error {
	if m.addParticipantInFunc != nil {
		return m.addParticipantInFunc(ctx, q, participant)
	}
	return nil
}

func (m *mockMatchRepo) RemoveParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
	if m.removeParticipantInFunc != nil {
		return m.removeParticipantInFunc(ctx, q, matchID, userID)
	}
	return false, nil
}

func (m *mockMatchRepo) CountParticipantsIn(ctx context.Context, q database.Querier, matchID uuid.UUID) (int, error) {
	if m.countParticipantsInFunc != nil {
		return m.countParticipantsInFunc(ctx, q, matchID)
	}
	return 0, nil
}

func (m *mockMatchRepo) IsParticipantIn(ctx context.Context, q database.Querier, matchID, userID uuid.UUID) (bool, error) {
	if m.isParticipantInFunc != nil {
		return m.isParticipantInFunc(ctx, q, matchID, userID)
	}
	return false, nil
}

func (m *mockMatchRepo) FindParticipants(ctx context.Context, matchID uuid.UUID) ([]*entity.MatchParticipant, error) {
	if m.findParticipantsFunc != nil {
		return m.findParticipantsFunc(ctx, matchID)
	}
	return nil, nil
}

type mockPaymentRepo struct {
	createInFunc        func(ctx context.Context, q database.Querier, payment *entity.Payment) error
	findByIDFunc        func(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	findByBookingIDFunc func(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error)
	findAllFunc         func(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*entity.Payment, error)
	countAllFunc        func(ctx context.Context, userID *uuid.UUID) (int64, error)
	updateStatusFunc    func(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error
	updateStatusInFunc  func(ctx context.Context, q database.Querier, id uuid.UUID, status entity.PaymentStatus) error
	settleInFunc        func(ctx context.Context, q database.Querier, id uuid.UUID, transactionID *string) (bool, error)
}

func (m *mockPaymentRepo) CreateIn(ctx context.Context, q database.Querier, payment *entity.Payment) error {
	if m.createInFunc != nil {
		return m.createInFunc(ctx, q, payment)
	}
	return nil
}

func (m *mockPaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPaymentRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.Payment, error) {
	if m.findByBookingIDFunc != nil {
		return m.findByBookingIDFunc(ctx, bookingID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) FindAll(ctx context.Context, userID *uuid.UUID, limit, offset int) ([]*entity.Payment, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, userID, limit, offset)
	}
	return nil, nil
}

func (m *mockPaymentRepo) CountAll(ctx context.Context, userID *uuid.UUID) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx, userID)
	}
	return 0, nil
}

func (m *mockPaymentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.PaymentStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockPaymentRepo) UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.PaymentStatus) error {
	if m.updateStatusInFunc != nil {
		return m.updateStatusInFunc(ctx, q, id, status)
	}
	return nil
}

func (m *mockPaymentRepo) SettleIn(ctx context.Context, q database.Querier, id uuid.UUID, transactionID *string) (bool, error) {
	if m.settleInFunc != nil {
		return m.settleInFunc(ctx, q, id, transactionID)
	}
	return false, nil
}

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *entity.User) error
	findByIDFunc       func(ctx context.Context, id uuid.UUID) (*entity.User, error)
	findByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	findByUsernameFunc func(ctx context.Context, username string) (*entity.User, error)
	findAllFunc        func(ctx context.Context, limit, offset int) ([]*entity.User, error)
	countAllFunc       func(ctx context.Context) (int64, error)
	updateFunc         func(ctx context.Context, user *entity.User) error
	setActiveFunc      func(ctx context.Context, id uuid.UUID, active bool) error
	deleteFunc         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockUserRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.User, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return nil, nil
}

func (m *mockUserRepo) CountAll(ctx context.Context) (int64, error) {
	if m.countAllFunc != nil {
		return m.countAllFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if m.setActiveFunc != nil {
		return m.setActiveFunc(ctx, id, active)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockSessionRepo struct {
	createFunc                func(ctx context.Context, session *entity.Session) error
	findValidSessionFunc      func(ctx context.Context, token string) (*entity.Session, error)
	revokeFunc                func(ctx context.Context, token string) error
	revokeAllUserSessionsFunc func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	if m.findValidSessionFunc != nil {
		return m.findValidSessionFunc(ctx, token)
	}
	return nil, nil
}

func (m *mockSessionRepo) Revoke(ctx context.Context, token string) error {
	if m.revokeFunc != nil {
		return m.revokeFunc(ctx, token)
	}
	return nil
}

func (m *mockSessionRepo) RevokeAllUserSessions(ctx context.Context, userID uuid.UUID) error {
	if m.revokeAllUserSessionsFunc != nil {
		return m.revokeAllUserSessionsFunc(ctx, userID)
	}
	return nil
}

type mockCategoryRepo struct {
	findAllFunc  func(ctx context.Context) ([]*entity.MatchCategory, error)
	findByIDFunc func(ctx context.Context, id uuid.UUID) (*entity.MatchCategory, error)
}

func (m *mockCategoryRepo) FindAll(ctx context.Context) ([]*entity.MatchCategory, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.MatchCategory, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}
