package service

import (
	"context"
	"strings"
	"testing"
	"time"

	notificationsrepo "voyago/internal/notifications/repository"
	offerserrors "voyago/internal/offers/errors"
	reservationserrors "voyago/internal/reservations/errors"
	"voyago/internal/reservations/validator"
	"voyago/pkg/config"
	mongotx "voyago/pkg/db/mongo"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/logger"
	"voyago/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// --- Mocks ---

type mockReservationRepo struct {
	createFn                 func(ctx context.Context, r *model.Reservation) error
	findByIDFn               func(ctx context.Context, id string) (*model.Reservation, error)
	findByClientFn           func(ctx context.Context, clientID string, status model.ReservationStatus, page, limit int) ([]*model.Reservation, int64, error)
	setStatusFn              func(ctx context.Context, id string, status model.ReservationStatus) error
	cancelFn                 func(ctx context.Context, id string, reason string, at time.Time) error
	findConfirmedDepartingFn func(ctx context.Context, from, to time.Time) ([]*model.Reservation, error)
	findStalePendingFn       func(ctx context.Context, cutoff time.Time) ([]*model.Reservation, error)
}

func (m *mockReservationRepo) Create(ctx context.Context, r *model.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, r)
	}
	r.ID = "res-1"
	return nil
}

func (m *mockReservationRepo) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, reservationserrors.ErrNotFound
}

func (m *mockReservationRepo) FindByClient(ctx context.Context, clientID string, status model.ReservationStatus, page, limit int) ([]*model.Reservation, int64, error) {
	if m.findByClientFn != nil {
		return m.findByClientFn(ctx, clientID, status, page, limit)
	}
	return nil, 0, nil
}

func (m *mockReservationRepo) SetStatus(ctx context.Context, id string, status model.ReservationStatus) error {
	if m.setStatusFn != nil {
		return m.setStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockReservationRepo) Cancel(ctx context.Context, id string, reason string, at time.Time) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, id, reason, at)
	}
	return nil
}

func (m *mockReservationRepo) FindConfirmedDeparting(ctx context.Context, from, to time.Time) ([]*model.Reservation, error) {
	if m.findConfirmedDepartingFn != nil {
		return m.findConfirmedDepartingFn(ctx, from, to)
	}
	return nil, nil
}

func (m *mockReservationRepo) FindStalePending(ctx context.Context, cutoff time.Time) ([]*model.Reservation, error) {
	if m.findStalePendingFn != nil {
		return m.findStalePendingFn(ctx, cutoff)
	}
	return nil, nil
}

func (m *mockReservationRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	var sessCtx mongo.SessionContext
	return fn(sessCtx)
}

type mockPaymentRepo struct {
	createFn            func(ctx context.Context, p *model.Payment) error
	findByReservationFn func(ctx context.Context, reservationID string) ([]*model.Payment, error)
	hasCompletedFn      func(ctx context.Context, reservationID string) (bool, error)
	completeFn          func(ctx context.Context, id string, at time.Time) error
	refundFn            func(ctx context.Context, id string, amount float64, reason string, at time.Time) error
}

func (m *mockPaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	p.ID = "pay-1"
	return nil
}

func (m *mockPaymentRepo) FindByReservation(ctx context.Context, reservationID string) ([]*model.Payment, error) {
	if m.findByReservationFn != nil {
		return m.findByReservationFn(ctx, reservationID)
	}
	return nil, nil
}

func (m *mockPaymentRepo) HasCompleted(ctx context.Context, reservationID string) (bool, error) {
	if m.hasCompletedFn != nil {
		return m.hasCompletedFn(ctx, reservationID)
	}
	return false, nil
}

func (m *mockPaymentRepo) Complete(ctx context.Context, id string, at time.Time) error {
	if m.completeFn != nil {
		return m.completeFn(ctx, id, at)
	}
	return nil
}

func (m *mockPaymentRepo) Refund(ctx context.Context, id string, amount float64, reason string, at time.Time) error {
	if m.refundFn != nil {
		return m.refundFn(ctx, id, amount, reason, at)
	}
	return nil
}

type mockOfferRepo struct {
	findByIDFn     func(ctx context.Context, id string) (*model.Offer, error)
	reserveSeatsFn func(ctx context.Context, id string, guests int) (bool, error)
	releaseSeatsFn func(ctx context.Context, id string, guests int) error

	reserved int
	released int
}

func (m *mockOfferRepo) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, offerserrors.ErrNotFound
}

func (m *mockOfferRepo) ReserveSeats(ctx context.Context, id string, guests int) (bool, error) {
	if m.reserveSeatsFn != nil {
		return m.reserveSeatsFn(ctx, id, guests)
	}
	m.reserved += guests
	return true, nil
}

func (m *mockOfferRepo) ReleaseSeats(ctx context.Context, id string, guests int) error {
	if m.releaseSeatsFn != nil {
		return m.releaseSeatsFn(ctx, id, guests)
	}
	m.released += guests
	return nil
}

type mockNotificationRepo struct {
	created []*model.Notification

	existsFn func(ctx context.Context, reservationID string, nType model.NotificationType, since time.Time) (bool, error)
}

func (m *mockNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	n.ID = "notif-1"
	m.created = append(m.created, n)
	return nil
}

func (m *mockNotificationRepo) FindByClient(ctx context.Context, clientID string, filter notificationsrepo.ListFilter) ([]*model.Notification, int64, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string, clientID string, at time.Time) (*model.Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, clientID string, at time.Time) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) UnreadCount(ctx context.Context, clientID string) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) ExistsForReservationSince(ctx context.Context, reservationID string, nType model.NotificationType, since time.Time) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, reservationID, nType, since)
	}
	return false, nil
}

type mockPublisher struct {
	created   int
	paid      int
	cancelled int
}

func (m *mockPublisher) ReservationCreated(ctx context.Context, r *model.Reservation) { m.created++ }
func (m *mockPublisher) PaymentCompleted(ctx context.Context, r *model.Reservation, p *model.Payment) {
	m.paid++
}
func (m *mockPublisher) ReservationCancelled(ctx context.Context, r *model.Reservation, refunded bool) {
	m.cancelled++
}

// --- Fixtures ---

const (
	testOfferID  = "64f1b2a3c4d5e6f7a8b9c0d1"
	testClientID = "client-1"
)

func testOffer() *model.Offer {
	departure := time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC)
	ret := departure.Add(7 * 24 * time.Hour)
	return &model.Offer{
		ID:             testOfferID,
		Title:          "Saly Beach Week",
		Price:          100000,
		Currency:       "XOF",
		IsActive:       true,
		AvailableSeats: 10,
		MaxCapacity:    20,
		DepartureDate:  &departure,
		ReturnDate:     &ret,
	}
}

type testEnv struct {
	svc           *reservationService
	repo          *mockReservationRepo
	payments      *mockPaymentRepo
	offers        *mockOfferRepo
	notifications *mockNotificationRepo
	publisher     *mockPublisher
	now           time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR}),
	}

	env := &testEnv{
		repo:          &mockReservationRepo{},
		payments:      &mockPaymentRepo{},
		offers:        &mockOfferRepo{},
		notifications: &mockNotificationRepo{},
		publisher:     &mockPublisher{},
		now:           time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}

	v := validator.NewReservationValidator(cfg.Log)
	svc := NewReservationService(env.repo, env.payments, env.offers, env.notifications, v, env.publisher, cfg)

	env.svc = svc.(*reservationService)
	env.svc.now = func() time.Time { return env.now }
	env.svc.newTransactionID = func(at time.Time) string { return "TXN-1724832000-deadbeef" }

	return env
}

// --- Create ---

func TestCreateReservation(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		return testOffer(), nil
	}

	reservation, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 3,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if reservation.Status != model.ReservationPending {
		t.Errorf("expected pending status, got %s", reservation.Status)
	}
	if reservation.TotalAmount != 300000 {
		t.Errorf("expected total 300000, got %f", reservation.TotalAmount)
	}
	if reservation.Currency != "XOF" {
		t.Errorf("expected currency XOF, got %s", reservation.Currency)
	}
	if env.offers.reserved != 3 {
		t.Errorf("expected 3 seats reserved, got %d", env.offers.reserved)
	}
	if !reservation.SeatsReserved {
		t.Error("expected seats to be marked as reserved")
	}
	if !reservation.ReservationDate.Equal(env.now) {
		t.Errorf("expected reservation_date %v, got %v", env.now, reservation.ReservationDate)
	}
	if reservation.DepartureDate == nil || !reservation.DepartureDate.Equal(*testOffer().DepartureDate) {
		t.Errorf("expected offer departure date, got %v", reservation.DepartureDate)
	}
	if len(env.notifications.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(env.notifications.created))
	}
	if env.notifications.created[0].Type != model.NotificationReservationCreated {
		t.Errorf("unexpected notification type %s", env.notifications.created[0].Type)
	}
	if env.publisher.created != 1 {
		t.Errorf("expected 1 created event, got %d", env.publisher.created)
	}
}

func TestCreateReservationAppliesPromotion(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		offer := testOffer()
		offer.IsPromotion = true
		offer.PromotionDiscount = 10
		return offer, nil
	}

	reservation, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 2,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if reservation.TotalAmount != 180000 {
		t.Errorf("expected discounted total 180000, got %f", reservation.TotalAmount)
	}
}

func TestCreateReservationDateOverrides(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		return testOffer(), nil
	}

	departure := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	ret := time.Date(2026, 10, 8, 18, 0, 0, 0, time.UTC)

	reservation, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 2,
		DepartureDate:  &departure,
		ReturnDate:     &ret,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if reservation.DepartureDate == nil || !reservation.DepartureDate.Equal(departure) {
		t.Errorf("expected overridden departure date, got %v", reservation.DepartureDate)
	}
	if reservation.ReturnDate == nil || !reservation.ReturnDate.Equal(ret) {
		t.Errorf("expected overridden return date, got %v", reservation.ReturnDate)
	}
	if !reservation.ReservationDate.Equal(env.now) {
		t.Errorf("reservation_date must stay the creation time, got %v", reservation.ReservationDate)
	}
}

func TestCreateReservationOfferNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 1,
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", apperrors.AsAppError(err).Code)
	}
}

func TestCreateReservationInactiveOffer(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		offer := testOffer()
		offer.IsActive = false
		return offer, nil
	}

	_, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 1,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateReservationSeatsTakenConcurrently(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		return testOffer(), nil
	}
	env.offers.reserveSeatsFn = func(ctx context.Context, id string, guests int) (bool, error) {
		return false, offerserrors.ErrInsufficientSeats
	}

	_, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 5,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected CONFLICT, got %v", err)
	}
	if env.publisher.created != 0 {
		t.Error("no event should be published on failure")
	}
}

func TestCreateReservationUnlimitedSeats(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		offer := testOffer()
		offer.AvailableSeats = 0
		return offer, nil
	}
	env.offers.reserveSeatsFn = func(ctx context.Context, id string, guests int) (bool, error) {
		return false, nil
	}

	reservation, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 15,
	})
	if err != nil {
		t.Fatalf("unlimited offer should accept any guest count, got %v", err)
	}
	if reservation.SeatsReserved {
		t.Error("no seats were decremented, reservation must not claim any")
	}
}

func TestCreateReservationInsufficientSeatsPrecheck(t *testing.T) {
	env := newTestEnv(t)
	env.offers.findByIDFn = func(ctx context.Context, id string) (*model.Offer, error) {
		offer := testOffer()
		offer.AvailableSeats = 2
		return offer, nil
	}

	_, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 5,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreateReservationInvalidInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Create(context.Background(), testClientID, &model.ReservationCreate{
		OfferID:        testOfferID,
		NumberOfGuests: 0,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

// --- GetByID / List ---

func TestGetByIDForbiddenForOtherClient(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: "someone-else"}, nil
	}

	_, err := env.svc.GetByID(context.Background(), testClientID, "res-1")
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.svc.List(context.Background(), testClientID, "archived", 1, 10)
	if apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

// --- Cancel ---

func TestCancelReservation(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:             id,
			ClientID:       testClientID,
			OfferID:        testOfferID,
			NumberOfGuests: 4,
			Status:         model.ReservationConfirmed,
			SeatsReserved:  true,
		}, nil
	}
	env.payments.findByReservationFn = func(ctx context.Context, reservationID string) ([]*model.Payment, error) {
		return []*model.Payment{
			{ID: "pay-1", Status: model.PaymentCompleted, Amount: 400000},
			{ID: "pay-2", Status: model.PaymentRefunded, Amount: 100000},
		}, nil
	}

	var refundedID, refundReason string
	env.payments.refundFn = func(ctx context.Context, id string, amount float64, reason string, at time.Time) error {
		refundedID = id
		refundReason = reason
		if amount != 400000 {
			t.Errorf("expected full refund of 400000, got %f", amount)
		}
		return nil
	}

	reservation, err := env.svc.Cancel(context.Background(), testClientID, "res-1", &model.ReservationCancel{Reason: "change of plans"})
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}

	if reservation.Status != model.ReservationCancelled {
		t.Errorf("expected cancelled status, got %s", reservation.Status)
	}
	if env.offers.released != 4 {
		t.Errorf("expected 4 seats released, got %d", env.offers.released)
	}
	if refundedID != "pay-1" {
		t.Errorf("expected pay-1 refunded, got %q", refundedID)
	}
	if refundReason != "change of plans" {
		t.Errorf("refund must carry the caller's reason, got %q", refundReason)
	}
	if len(env.notifications.created) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(env.notifications.created))
	}
	if !strings.Contains(env.notifications.created[0].Message, "refund") {
		t.Errorf("cancellation notification should mention refund, got %q", env.notifications.created[0].Message)
	}
	if env.publisher.cancelled != 1 {
		t.Errorf("expected 1 cancelled event, got %d", env.publisher.cancelled)
	}
}

func TestCancelAlreadyCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: testClientID, Status: model.ReservationCancelled}, nil
	}

	_, err := env.svc.Cancel(context.Background(), testClientID, "res-1", nil)
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCancelCompletedReservation(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: testClientID, Status: model.ReservationCompleted}, nil
	}

	_, err := env.svc.Cancel(context.Background(), testClientID, "res-1", nil)
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCancelUnlimitedReservationKeepsSeats(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:             id,
			ClientID:       testClientID,
			OfferID:        testOfferID,
			NumberOfGuests: 5,
			Status:         model.ReservationPending,
			SeatsReserved:  false,
		}, nil
	}

	_, err := env.svc.Cancel(context.Background(), testClientID, "res-1", nil)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if env.offers.released != 0 {
		t.Errorf("creation took no seats, cancel must release none, released %d", env.offers.released)
	}
}

func TestCancelRefundReasonDefaultsWhenEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:             id,
			ClientID:       testClientID,
			OfferID:        testOfferID,
			NumberOfGuests: 1,
			Status:         model.ReservationConfirmed,
			SeatsReserved:  true,
		}, nil
	}
	env.payments.findByReservationFn = func(ctx context.Context, reservationID string) ([]*model.Payment, error) {
		return []*model.Payment{{ID: "pay-1", Status: model.PaymentCompleted, Amount: 100000}}, nil
	}

	var refundReason string
	env.payments.refundFn = func(ctx context.Context, id string, amount float64, reason string, at time.Time) error {
		refundReason = reason
		return nil
	}

	_, err := env.svc.Cancel(context.Background(), testClientID, "res-1", nil)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if refundReason != "Reservation cancelled" {
		t.Errorf("expected default refund reason, got %q", refundReason)
	}
}

func TestCancelPendingWithoutPaymentSkipsRefund(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:             id,
			ClientID:       testClientID,
			OfferID:        testOfferID,
			NumberOfGuests: 2,
			Status:         model.ReservationPending,
		}, nil
	}

	refunds := 0
	env.payments.refundFn = func(ctx context.Context, id string, amount float64, reason string, at time.Time) error {
		refunds++
		return nil
	}

	_, err := env.svc.Cancel(context.Background(), testClientID, "res-1", nil)
	if err != nil {
		t.Fatalf("Cancel returned error: %v", err)
	}
	if refunds != 0 {
		t.Errorf("expected no refunds, got %d", refunds)
	}
	if strings.Contains(env.notifications.created[0].Message, "refund") {
		t.Errorf("notification should not mention refund, got %q", env.notifications.created[0].Message)
	}
}

// --- Payments ---

func TestCreatePayment(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:          id,
			ClientID:    testClientID,
			OfferID:     testOfferID,
			TotalAmount: 250000,
			Currency:    "XOF",
			Status:      model.ReservationPending,
		}, nil
	}

	var confirmedStatus model.ReservationStatus
	env.repo.setStatusFn = func(ctx context.Context, id string, status model.ReservationStatus) error {
		confirmedStatus = status
		return nil
	}

	payment, reservation, err := env.svc.CreatePayment(context.Background(), testClientID, "res-1", &model.PaymentCreate{
		PaymentMethod: model.PaymentMethodMobileMoney,
	})
	if err != nil {
		t.Fatalf("CreatePayment returned error: %v", err)
	}

	if payment.Status != model.PaymentCompleted {
		t.Errorf("expected completed payment, got %s", payment.Status)
	}
	if payment.Amount != 250000 {
		t.Errorf("expected amount 250000, got %f", payment.Amount)
	}
	if !strings.HasPrefix(payment.TransactionID, "TXN-") {
		t.Errorf("expected TXN- transaction ID, got %q", payment.TransactionID)
	}
	if confirmedStatus != model.ReservationConfirmed {
		t.Errorf("expected reservation confirmed, got %s", confirmedStatus)
	}
	if reservation == nil || reservation.Status != model.ReservationConfirmed {
		t.Errorf("expected the confirmed reservation alongside the payment, got %+v", reservation)
	}
	if len(env.notifications.created) != 1 || env.notifications.created[0].Type != model.NotificationPaymentCompleted {
		t.Error("expected a payment_completed notification")
	}
	if env.publisher.paid != 1 {
		t.Errorf("expected 1 payment event, got %d", env.publisher.paid)
	}
}

func TestCreatePaymentUsesSuppliedTransactionID(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{
			ID:          id,
			ClientID:    testClientID,
			TotalAmount: 250000,
			Currency:    "XOF",
			Status:      model.ReservationPending,
		}, nil
	}

	payment, _, err := env.svc.CreatePayment(context.Background(), testClientID, "res-1", &model.PaymentCreate{
		PaymentMethod: model.PaymentMethodBankTransfer,
		TransactionID: "BANK-REF-20260828-042",
	})
	if err != nil {
		t.Fatalf("CreatePayment returned error: %v", err)
	}
	if payment.TransactionID != "BANK-REF-20260828-042" {
		t.Errorf("expected the supplied transaction ID, got %q", payment.TransactionID)
	}
}

func TestCreatePaymentOnCancelledReservation(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: testClientID, Status: model.ReservationCancelled}, nil
	}

	_, _, err := env.svc.CreatePayment(context.Background(), testClientID, "res-1", &model.PaymentCreate{
		PaymentMethod: model.PaymentMethodCard,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestCreatePaymentAlreadyPaid(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: testClientID, Status: model.ReservationConfirmed}, nil
	}
	env.payments.hasCompletedFn = func(ctx context.Context, reservationID string) (bool, error) {
		return true, nil
	}

	_, _, err := env.svc.CreatePayment(context.Background(), testClientID, "res-1", &model.PaymentCreate{
		PaymentMethod: model.PaymentMethodCard,
	})
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestListPaymentsForbiddenForOtherClient(t *testing.T) {
	env := newTestEnv(t)
	env.repo.findByIDFn = func(ctx context.Context, id string) (*model.Reservation, error) {
		return &model.Reservation{ID: id, ClientID: "someone-else"}, nil
	}

	_, err := env.svc.ListPayments(context.Background(), testClientID, "res-1")
	if apperrors.AsAppError(err).Code != apperrors.CodeForbidden {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}
