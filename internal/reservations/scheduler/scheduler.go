package scheduler

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	notificationsrepo "voyago/internal/notifications/repository"
	offersrepo "voyago/internal/offers/repository"
	"voyago/internal/reservations/repository"
	"voyago/pkg/config"
	"voyago/pkg/model"
)

// reminderDays are the checkpoints before departure at which a reminder
// goes out.
var reminderDays = map[int]bool{7: true, 3: true, 1: true}

// Scheduler runs the reminder sweeps: a daily pass over confirmed
// reservations approaching departure and an hourly pass over pending
// reservations that never got paid. Each reservation gets at most one
// reminder of a given type per calendar day.
type Scheduler struct {
	repo             repository.ReservationRepository
	paymentRepo      repository.PaymentRepository
	offerRepo        offersrepo.OfferRepository
	notificationRepo notificationsrepo.NotificationRepository
	cfg              *config.Config

	now    func() time.Time
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewScheduler(
	repo repository.ReservationRepository,
	paymentRepo repository.PaymentRepository,
	offerRepo offersrepo.OfferRepository,
	notificationRepo notificationsrepo.NotificationRepository,
	cfg *config.Config,
) *Scheduler {
	return &Scheduler{
		repo:             repo,
		paymentRepo:      paymentRepo,
		offerRepo:        offerRepo,
		notificationRepo: notificationRepo,
		cfg:              cfg,
		now:              time.Now,
		stopCh:           make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(2)
	go s.run(s.cfg.DepartureSweepInterval, s.SweepDepartureReminders)
	go s.run(s.cfg.PaymentSweepInterval, s.SweepPaymentReminders)

	s.cfg.Log.Info("Reminder scheduler started",
		"departure_sweep_interval", s.cfg.DepartureSweepInterval,
		"payment_sweep_interval", s.cfg.PaymentSweepInterval,
	)
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
	s.cfg.Log.Info("Reminder scheduler stopped")
}

func (s *Scheduler) run(interval time.Duration, sweep func(ctx context.Context) error) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := sweep(context.Background()); err != nil {
				s.cfg.Log.Error("Reminder sweep failed", "error", err)
			}
		}
	}
}

// SweepDepartureReminders notifies clients whose confirmed trips start
// in 7, 3, or 1 days. A failure on one reservation does not stop the
// sweep.
func (s *Scheduler) SweepDepartureReminders(ctx context.Context) error {
	now := s.now()

	reservations, err := s.repo.FindConfirmedDeparting(ctx, now, now.AddDate(0, 0, 8))
	if err != nil {
		return fmt.Errorf("failed to load departing reservations: %w", err)
	}

	sent := 0
	for _, reservation := range reservations {
		if reservation.DepartureDate == nil {
			continue
		}

		days := daysUntil(now, *reservation.DepartureDate)
		if !reminderDays[days] {
			continue
		}

		ok, err := s.remindOnce(ctx, reservation, model.NotificationReservationReminder, s.departureReminder(ctx, reservation, days))
		if err != nil {
			s.cfg.Log.Error("Failed to send departure reminder",
				"reservation_id", reservation.ID,
				"days_until_departure", days,
				"error", err,
			)
			continue
		}
		if ok {
			sent++
		}
	}

	s.cfg.Log.Info("Departure reminder sweep completed",
		"candidates", len(reservations),
		"sent", sent,
	)
	return nil
}

// SweepPaymentReminders nudges clients whose reservations sat pending
// longer than the configured age without a completed payment.
func (s *Scheduler) SweepPaymentReminders(ctx context.Context) error {
	now := s.now()
	cutoff := now.Add(-s.cfg.PaymentReminderAfter)

	reservations, err := s.repo.FindStalePending(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to load pending reservations: %w", err)
	}

	sent := 0
	for _, reservation := range reservations {
		paid, err := s.paymentRepo.HasCompleted(ctx, reservation.ID)
		if err != nil {
			s.cfg.Log.Error("Failed to check payments",
				"reservation_id", reservation.ID,
				"error", err,
			)
			continue
		}
		if paid {
			continue
		}

		notification := &model.Notification{
			ClientID:      reservation.ClientID,
			ReservationID: reservation.ID,
			Type:          model.NotificationPaymentReminder,
			Title:         "Payment reminder",
			Message: fmt.Sprintf("Your reservation of %s %s is awaiting payment. Complete your payment to confirm your trip.",
				formatAmount(reservation.TotalAmount), reservation.Currency),
		}

		ok, err := s.remindOnce(ctx, reservation, model.NotificationPaymentReminder, notification)
		if err != nil {
			s.cfg.Log.Error("Failed to send payment reminder",
				"reservation_id", reservation.ID,
				"error", err,
			)
			continue
		}
		if ok {
			sent++
		}
	}

	s.cfg.Log.Info("Payment reminder sweep completed",
		"candidates", len(reservations),
		"sent", sent,
	)
	return nil
}

// remindOnce creates the notification unless one of the same type was
// already created for this reservation since local midnight.
func (s *Scheduler) remindOnce(ctx context.Context, reservation *model.Reservation, nType model.NotificationType, notification *model.Notification) (bool, error) {
	since := startOfDay(s.now())

	exists, err := s.notificationRepo.ExistsForReservationSince(ctx, reservation.ID, nType, since)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scheduler) departureReminder(ctx context.Context, reservation *model.Reservation, days int) *model.Notification {
	titlePart := "Your trip"
	if offer, err := s.offerRepo.FindByID(ctx, reservation.OfferID); err == nil {
		titlePart = fmt.Sprintf("Your trip %q", offer.Title)
	} else {
		s.cfg.Log.Warn("Failed to load offer for reminder",
			"reservation_id", reservation.ID,
			"offer_id", reservation.OfferID,
			"error", err,
		)
	}

	var title, message string
	switch days {
	case 7:
		title = "Upcoming trip"
		message = fmt.Sprintf("%s starts in 7 days (%s). Get ready!",
			titlePart, reservation.DepartureDate.Format("Jan 2, 2006"))
	case 3:
		title = "Upcoming trip"
		message = fmt.Sprintf("%s starts in 3 days. Don't forget to prepare your documents!", titlePart)
	case 1:
		title = "Departure tomorrow!"
		message = fmt.Sprintf("%s starts tomorrow. Have a good trip!", titlePart)
	}

	return &model.Notification{
		ClientID:      reservation.ClientID,
		ReservationID: reservation.ID,
		Type:          model.NotificationReservationReminder,
		Title:         title,
		Message:       message,
	}
}

// daysUntil counts calendar-ish days by rounding the remaining time up,
// so a departure 6 days and 2 hours away counts as 7 days out.
func daysUntil(now, departure time.Time) int {
	return int(math.Ceil(departure.Sub(now).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
