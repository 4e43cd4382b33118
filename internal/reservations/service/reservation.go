package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	notificationsrepo "voyago/internal/notifications/repository"
	offerserrors "voyago/internal/offers/errors"
	offersrepo "voyago/internal/offers/repository"
	"voyago/internal/reservations/events"
	reservationserrors "voyago/internal/reservations/errors"
	"voyago/internal/reservations/repository"
	"voyago/internal/reservations/validator"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/model"
	"voyago/pkg/sanitizer"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReservationService interface {
	Create(ctx context.Context, clientID string, input *model.ReservationCreate) (*model.Reservation, error)
	GetByID(ctx context.Context, clientID string, id string) (*model.Reservation, error)
	List(ctx context.Context, clientID string, status model.ReservationStatus, page int, limit int) ([]*model.Reservation, int64, error)
	Cancel(ctx context.Context, clientID string, id string, input *model.ReservationCancel) (*model.Reservation, error)
	// CreatePayment settles a reservation and returns both the completed
	// payment and the confirmed reservation.
	CreatePayment(ctx context.Context, clientID string, reservationID string, input *model.PaymentCreate) (*model.Payment, *model.Reservation, error)
	ListPayments(ctx context.Context, clientID string, reservationID string) ([]*model.Payment, error)
}

type reservationService struct {
	repo             repository.ReservationRepository
	paymentRepo      repository.PaymentRepository
	offerRepo        offersrepo.OfferRepository
	notificationRepo notificationsrepo.NotificationRepository
	validator        *validator.ReservationValidator
	publisher        events.Publisher
	cfg              *config.Config

	now              func() time.Time
	newTransactionID func(at time.Time) string
}

func NewReservationService(
	repo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	offerRepo offersrepo.OfferRepository,
	notificationRepo notificationsrepo.NotificationRepository,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:             repo,
		paymentRepo:      paymentRepo,
		offerRepo:        offerRepo,
		notificationRepo: notificationRepo,
		validator:        validator,
		publisher:        publisher,
		cfg:              cfg,
		now:              time.Now,
		newTransactionID: generateTransactionID,
	}
}

func (s *reservationService) Create(ctx context.Context, clientID string, input *model.ReservationCreate) (*model.Reservation, error) {
	if clientID == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}
	if err := s.validator.ValidateCreate(input); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "client_id", clientID, "error", err)
		return nil, apperrors.Validation("Invalid reservation input", map[string]any{"error": err.Error()})
	}

	offer, err := s.offerRepo.FindByID(ctx, input.OfferID)
	if err != nil {
		return nil, s.translateOfferError(err, input.OfferID)
	}

	now := s.now()
	total, err := s.validator.Quote(offer, input.NumberOfGuests)
	if err != nil {
		return nil, s.translateQuoteError(err)
	}

	departureDate := offer.DepartureDate
	if input.DepartureDate != nil {
		departureDate = input.DepartureDate
	}
	returnDate := offer.ReturnDate
	if input.ReturnDate != nil {
		returnDate = input.ReturnDate
	}

	reservation := &model.Reservation{
		ClientID:        clientID,
		OfferID:         offer.ID,
		NumberOfGuests:  input.NumberOfGuests,
		TotalAmount:     total,
		Currency:        offer.Currency,
		Status:          model.ReservationPending,
		ReservationDate: now,
		DepartureDate:   departureDate,
		ReturnDate:      returnDate,
		SpecialRequests: sanitizer.NormalizeFreeText(input.SpecialRequests),
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		seatsReserved, err := s.offerRepo.ReserveSeats(sessCtx, offer.ID, input.NumberOfGuests)
		if err != nil {
			if errors.Is(err, offerserrors.ErrInsufficientSeats) {
				return apperrors.Conflict("Not enough available seats for this offer")
			}
			if errors.Is(err, offerserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Offer", offer.ID)
			}
			return apperrors.Internal("Failed to reserve seats", err)
		}
		reservation.SeatsReserved = seatsReserved

		if err := s.repo.Create(sessCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}

		notification := &model.Notification{
			ClientID:      clientID,
			ReservationID: reservation.ID,
			Type:          model.NotificationReservationCreated,
			Title:         "Reservation created",
			Message: fmt.Sprintf("Your reservation for %q has been created. Total amount: %s %s",
				offer.Title, formatAmount(total), offer.Currency),
		}
		if err := s.notificationRepo.Create(sessCtx, notification); err != nil {
			return apperrors.Internal("Failed to create notification", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation",
			"client_id", clientID,
			"offer_id", input.OfferID,
			"error", err,
		)
		return nil, err
	}

	s.publisher.ReservationCreated(ctx, reservation)

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"client_id", clientID,
		"offer_id", offer.ID,
		"guests", reservation.NumberOfGuests,
		"total_amount", reservation.TotalAmount,
	)
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, clientID string, id string) (*model.Reservation, error) {
	reservation, err := s.findOwned(ctx, clientID, id)
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, clientID string, status model.ReservationStatus, page int, limit int) ([]*model.Reservation, int64, error) {
	if clientID == "" {
		return nil, 0, apperrors.InvalidInput("Client ID cannot be empty")
	}
	if status != "" && !status.Valid() {
		return nil, 0, apperrors.InvalidInput("Invalid reservation status filter: " + string(status))
	}

	reservations, total, err := s.repo.FindByClient(ctx, clientID, status, page, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list reservations", "client_id", clientID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reservations", err)
	}

	return reservations, total, nil
}

func (s *reservationService) Cancel(ctx context.Context, clientID string, id string, input *model.ReservationCancel) (*model.Reservation, error) {
	if input == nil {
		input = &model.ReservationCancel{}
	}
	if err := s.validator.ValidateCancel(input); err != nil {
		return nil, apperrors.Validation("Invalid cancellation input", map[string]any{"error": err.Error()})
	}

	reservation, err := s.findOwned(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case model.ReservationCancelled:
		return nil, apperrors.Validation("Reservation is already cancelled", nil)
	case model.ReservationCompleted:
		return nil, apperrors.Validation("Completed reservations cannot be cancelled", nil)
	}

	now := s.now()
	reason := sanitizer.NormalizeFreeText(input.Reason)
	refunded := false

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Cancel(sessCtx, id, reason, now); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Reservation", id)
			}
			return apperrors.Internal("Failed to cancel reservation", err)
		}

		// Seats go back to the offer only when creation took them. The
		// offer bookings count is a lifetime total and stays where it is.
		if reservation.SeatsReserved {
			if err := s.offerRepo.ReleaseSeats(sessCtx, reservation.OfferID, reservation.NumberOfGuests); err != nil {
				if !errors.Is(err, offerserrors.ErrNotFound) {
					return apperrors.Internal("Failed to release seats", err)
				}
				s.cfg.Log.Warn("Offer missing during cancellation, seats not released",
					"reservation_id", id,
					"offer_id", reservation.OfferID,
				)
			}
		}

		payments, err := s.paymentRepo.FindByReservation(sessCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to load payments", err)
		}
		refundReason := reason
		if refundReason == "" {
			refundReason = "Reservation cancelled"
		}
		for _, p := range payments {
			if p.Status != model.PaymentCompleted {
				continue
			}
			if err := s.paymentRepo.Refund(sessCtx, p.ID, p.Amount, refundReason, now); err != nil {
				return apperrors.Internal("Failed to refund payment", err)
			}
			refunded = true
		}

		message := "Your reservation has been cancelled."
		if refunded {
			message += " Your refund will be processed within 5-7 business days."
		}
		notification := &model.Notification{
			ClientID:      clientID,
			ReservationID: id,
			Type:          model.NotificationReservationCancelled,
			Title:         "Reservation cancelled",
			Message:       message,
		}
		if err := s.notificationRepo.Create(sessCtx, notification); err != nil {
			return apperrors.Internal("Failed to create notification", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel reservation", "id", id, "error", err)
		return nil, err
	}

	reservation.Status = model.ReservationCancelled
	reservation.CancellationReason = reason
	reservation.CancelledAt = &now

	s.publisher.ReservationCancelled(ctx, reservation, refunded)

	s.cfg.Log.Info("Reservation cancelled successfully",
		"id", id,
		"client_id", clientID,
		"refunded", refunded,
	)
	return reservation, nil
}

func (s *reservationService) CreatePayment(ctx context.Context, clientID string, reservationID string, input *model.PaymentCreate) (*model.Payment, *model.Reservation, error) {
	if err := s.validator.ValidatePayment(input); err != nil {
		return nil, nil, apperrors.Validation("Invalid payment input", map[string]any{"error": err.Error()})
	}

	reservation, err := s.findOwned(ctx, clientID, reservationID)
	if err != nil {
		return nil, nil, err
	}

	if reservation.Status == model.ReservationCancelled {
		return nil, nil, apperrors.Validation("Cannot pay a cancelled reservation", nil)
	}

	alreadyPaid, err := s.paymentRepo.HasCompleted(ctx, reservationID)
	if err != nil {
		return nil, nil, apperrors.Internal("Failed to check existing payments", err)
	}
	if alreadyPaid {
		return nil, nil, apperrors.Validation("Reservation has already been paid", nil)
	}

	now := s.now()
	transactionID := input.TransactionID
	if transactionID == "" {
		transactionID = s.newTransactionID(now)
	}

	payment := &model.Payment{
		ReservationID: reservationID,
		Amount:        reservation.TotalAmount,
		Currency:      reservation.Currency,
		PaymentMethod: input.PaymentMethod,
		Status:        model.PaymentPending,
		TransactionID: transactionID,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.paymentRepo.Create(sessCtx, payment); err != nil {
			return apperrors.Internal("Failed to create payment", err)
		}

		// No real gateway behind this: settlement is simulated and
		// completes immediately.
		if err := s.paymentRepo.Complete(sessCtx, payment.ID, now); err != nil {
			return apperrors.Internal("Failed to complete payment", err)
		}

		if err := s.repo.SetStatus(sessCtx, reservationID, model.ReservationConfirmed); err != nil {
			return apperrors.Internal("Failed to confirm reservation", err)
		}

		notification := &model.Notification{
			ClientID:      clientID,
			ReservationID: reservationID,
			Type:          model.NotificationPaymentCompleted,
			Title:         "Payment received",
			Message: fmt.Sprintf("Your payment of %s %s has been received. Your reservation is confirmed!",
				formatAmount(payment.Amount), payment.Currency),
		}
		if err := s.notificationRepo.Create(sessCtx, notification); err != nil {
			return apperrors.Internal("Failed to create notification", err)
		}

		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create payment",
			"reservation_id", reservationID,
			"client_id", clientID,
			"error", err,
		)
		return nil, nil, err
	}

	payment.Status = model.PaymentCompleted
	payment.PaymentDate = &now
	reservation.Status = model.ReservationConfirmed

	s.publisher.PaymentCompleted(ctx, reservation, payment)

	s.cfg.Log.Info("Payment completed successfully",
		"payment_id", payment.ID,
		"reservation_id", reservationID,
		"transaction_id", payment.TransactionID,
		"amount", payment.Amount,
	)
	return payment, reservation, nil
}

func (s *reservationService) ListPayments(ctx context.Context, clientID string, reservationID string) ([]*model.Payment, error) {
	if _, err := s.findOwned(ctx, clientID, reservationID); err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.FindByReservation(ctx, reservationID)
	if err != nil {
		s.cfg.Log.Error("Failed to list payments", "reservation_id", reservationID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve payments", err)
	}

	return payments, nil
}

// --- Helpers ---

// findOwned loads a reservation and enforces that the caller owns it.
// Existence is checked before ownership, so a foreign reservation ID
// reports forbidden rather than not found.
func (s *reservationService) findOwned(ctx context.Context, clientID string, id string) (*model.Reservation, error) {
	if clientID == "" {
		return nil, apperrors.InvalidInput("Client ID cannot be empty")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Reservation", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}

	if reservation.ClientID != clientID {
		return nil, apperrors.Forbidden("You do not have access to this reservation")
	}

	return reservation, nil
}

func (s *reservationService) translateOfferError(err error, offerID string) error {
	if errors.Is(err, offerserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Offer", offerID)
	}
	if errors.Is(err, offerserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid offer ID format")
	}
	return apperrors.Internal("Failed to retrieve offer", err)
}

func (s *reservationService) translateQuoteError(err error) error {
	switch {
	case errors.Is(err, reservationserrors.ErrOfferNotFound):
		return apperrors.NotFound("Offer")
	case errors.Is(err, reservationserrors.ErrOfferInactive):
		return apperrors.Validation("Offer is not active", nil)
	case errors.Is(err, reservationserrors.ErrExceedsCapacity):
		return apperrors.Validation("Number of guests exceeds offer capacity", nil)
	case errors.Is(err, reservationserrors.ErrInsufficientSeats):
		return apperrors.Validation("Not enough available seats for this offer", nil)
	default:
		return apperrors.Internal("Failed to price reservation", err)
	}
}

// generateTransactionID builds IDs like TXN-1724832000-3f9a1c2b.
func generateTransactionID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN-%d-%s", at.Unix(), suffix)
}

// formatAmount renders a monetary value without trailing zeros, the way
// clients already see offer prices.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
