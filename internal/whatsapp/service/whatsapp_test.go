package service

import (
	"context"
	"strings"
	"testing"

	offerserrors "voyago/internal/offers/errors"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/logger"
	"voyago/pkg/model"
)

type mockOfferRepo struct {
	findByIDFn func(ctx context.Context, id string) (*model.Offer, error)
}

func (m *mockOfferRepo) FindByID(ctx context.Context, id string) (*model.Offer, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, offerserrors.ErrNotFound
}

func (m *mockOfferRepo) ReserveSeats(ctx context.Context, id string, guests int) (bool, error) {
	return false, nil
}
func (m *mockOfferRepo) ReleaseSeats(ctx context.Context, id string, guests int) error { return nil }

type mockLogRepo struct {
	created []*model.WhatsAppLog
	err     error
}

func (m *mockLogRepo) Create(ctx context.Context, log *model.WhatsAppLog) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, log)
	return nil
}

func newTestService(offers *mockOfferRepo, logs *mockLogRepo) WhatsAppService {
	cfg := &config.Config{
		Log:                     logger.New(logger.Config{Level: logger.ERROR}),
		WhatsAppPhoneNumber:     "221761885485",
		WhatsAppMessageTemplate: "Hello, I am interested in",
	}
	return NewWhatsAppService(offers, logs, cfg)
}

func TestInquiryLinkEscapesMessage(t *testing.T) {
	offers := &mockOfferRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Offer, error) {
			return &model.Offer{ID: id, Title: "Saly Beach Week", Destination: "Saly, Senegal"}, nil
		},
	}
	logs := &mockLogRepo{}
	svc := newTestService(offers, logs)

	link, err := svc.InquiryLink(context.Background(), "offer-1", "Awa", "+221770000000")
	if err != nil {
		t.Fatalf("InquiryLink returned error: %v", err)
	}

	if !strings.HasPrefix(link, "https://wa.me/221761885485?text=") {
		t.Errorf("unexpected link prefix: %q", link)
	}
	if strings.ContainsAny(strings.TrimPrefix(link, "https://wa.me/221761885485?text="), " \"") {
		t.Errorf("message should be query-escaped, got %q", link)
	}
	if len(logs.created) != 1 {
		t.Fatalf("expected 1 inquiry log, got %d", len(logs.created))
	}
	if logs.created[0].OfferID != "offer-1" {
		t.Errorf("unexpected inquiry log %+v", logs.created[0])
	}
}

func TestInquiryLinkOfferNotFound(t *testing.T) {
	svc := newTestService(&mockOfferRepo{}, &mockLogRepo{})

	_, err := svc.InquiryLink(context.Background(), "missing", "", "")
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestInquiryLinkSurvivesLogFailure(t *testing.T) {
	offers := &mockOfferRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Offer, error) {
			return &model.Offer{ID: id, Title: "Dakar Getaway"}, nil
		},
	}
	logs := &mockLogRepo{err: context.DeadlineExceeded}
	svc := newTestService(offers, logs)

	link, err := svc.InquiryLink(context.Background(), "offer-1", "", "")
	if err != nil {
		t.Fatalf("log failure should not fail the link: %v", err)
	}
	if link == "" {
		t.Error("expected a link")
	}
}
