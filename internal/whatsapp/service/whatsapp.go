package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	offerserrors "voyago/internal/offers/errors"
	offersrepo "voyago/internal/offers/repository"
	"voyago/internal/whatsapp/repository"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/model"
	"voyago/pkg/sanitizer"
)

type WhatsAppService interface {
	// InquiryLink builds a wa.me deep link preloaded with an inquiry
	// message for the offer, and records the inquiry.
	InquiryLink(ctx context.Context, offerID string, customerName string, customerPhone string) (string, error)
}

type whatsappService struct {
	offerRepo offersrepo.OfferRepository
	logRepo   repository.WhatsAppLogRepository
	cfg       *config.Config
}

func NewWhatsAppService(offerRepo offersrepo.OfferRepository, logRepo repository.WhatsAppLogRepository, cfg *config.Config) WhatsAppService {
	return &whatsappService{
		offerRepo: offerRepo,
		logRepo:   logRepo,
		cfg:       cfg,
	}
}

func (s *whatsappService) InquiryLink(ctx context.Context, offerID string, customerName string, customerPhone string) (string, error) {
	offer, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, offerserrors.ErrNotFound) {
			return "", apperrors.NotFoundWithID("Offer", offerID)
		}
		if errors.Is(err, offerserrors.ErrInvalidID) {
			return "", apperrors.InvalidInput("Invalid offer ID format")
		}
		return "", apperrors.Internal("Failed to retrieve offer", err)
	}

	message := fmt.Sprintf("%s %q", s.cfg.WhatsAppMessageTemplate, offer.Title)
	if offer.Destination != "" {
		message = fmt.Sprintf("%s (%s)", message, offer.Destination)
	}

	link := fmt.Sprintf("https://wa.me/%s?text=%s",
		s.cfg.WhatsAppPhoneNumber, url.QueryEscape(message))

	// The inquiry log is best effort, the link still works without it.
	inquiry := &model.WhatsAppLog{
		OfferID:       offer.ID,
		CustomerPhone: sanitizer.NormalizeFreeText(customerPhone),
		CustomerName:  sanitizer.NormalizeFreeText(customerName),
		Message:       message,
		Type:          "offer_inquiry",
		Status:        "generated",
	}
	if err := s.logRepo.Create(ctx, inquiry); err != nil {
		s.cfg.Log.Warn("Failed to record whatsapp inquiry",
			"offer_id", offerID,
			"error", err,
		)
	}

	return link, nil
}
