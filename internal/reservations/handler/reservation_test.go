package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "voyago/pkg/errors"
	"voyago/pkg/logger"
	"voyago/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Mock service for testing
type mockReservationService struct {
	createFunc        func(ctx context.Context, clientID string, input *model.ReservationCreate) (*model.Reservation, error)
	getFunc           func(ctx context.Context, clientID string, id string) (*model.Reservation, error)
	listFunc          func(ctx context.Context, clientID string, status model.ReservationStatus, page, limit int) ([]*model.Reservation, int64, error)
	createPaymentFunc func(ctx context.Context, clientID string, reservationID string, input *model.PaymentCreate) (*model.Payment, *model.Reservation, error)
}

func (m *mockReservationService) Create(ctx context.Context, clientID string, input *model.ReservationCreate) (*model.Reservation, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, clientID, input)
	}
	return &model.Reservation{ID: "res-1", ClientID: clientID}, nil
}

func (m *mockReservationService) GetByID(ctx context.Context, clientID string, id string) (*model.Reservation, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, clientID, id)
	}
	return nil, apperrors.NotFoundWithID("Reservation", id)
}

func (m *mockReservationService) List(ctx context.Context, clientID string, status model.ReservationStatus, page, limit int) ([]*model.Reservation, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, clientID, status, page, limit)
	}
	return []*model.Reservation{}, 0, nil
}

func (m *mockReservationService) Cancel(ctx context.Context, clientID string, id string, input *model.ReservationCancel) (*model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationService) CreatePayment(ctx context.Context, clientID string, reservationID string, input *model.PaymentCreate) (*model.Payment, *model.Reservation, error) {
	if m.createPaymentFunc != nil {
		return m.createPaymentFunc(ctx, clientID, reservationID, input)
	}
	return nil, nil, apperrors.NotFoundWithID("Reservation", reservationID)
}

func (m *mockReservationService) ListPayments(ctx context.Context, clientID string, reservationID string) ([]*model.Payment, error) {
	return nil, nil
}

func newTestRouter(svc *mockReservationService) *httprouter.Router {
	log := logger.New(logger.Config{Level: logger.ERROR})
	h := NewReservationHandler(svc, log)
	router := httprouter.New()
	h.RegisterRoutes(router)
	return router
}

func TestCreateRequiresClientID(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without X-Client-ID, got %d", rec.Code)
	}
}

func TestCreateReturns201(t *testing.T) {
	var receivedClientID string
	svc := &mockReservationService{
		createFunc: func(ctx context.Context, clientID string, input *model.ReservationCreate) (*model.Reservation, error) {
			receivedClientID = clientID
			return &model.Reservation{ID: "res-1", ClientID: clientID, OfferID: input.OfferID}, nil
		},
	}
	router := newTestRouter(svc)

	body := `{"offer_id":"64f1b2a3c4d5e6f7a8b9c0d1","number_of_guests":2}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(body))
	req.Header.Set("X-Client-ID", "client-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if receivedClientID != "client-1" {
		t.Errorf("expected client-1, got %q", receivedClientID)
	}
}

func TestCreateRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(&mockReservationService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations", strings.NewReader(`{not json`))
	req.Header.Set("X-Client-ID", "client-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestGetByIDMapsForbidden(t *testing.T) {
	svc := &mockReservationService{
		getFunc: func(ctx context.Context, clientID string, id string) (*model.Reservation, error) {
			return nil, apperrors.Forbidden("You do not have access to this reservation")
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations/res-1", nil)
	req.Header.Set("X-Client-ID", "client-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestCreatePaymentReturnsPaymentAndReservation(t *testing.T) {
	svc := &mockReservationService{
		createPaymentFunc: func(ctx context.Context, clientID string, reservationID string, input *model.PaymentCreate) (*model.Payment, *model.Reservation, error) {
			return &model.Payment{ID: "pay-1", ReservationID: reservationID, Status: model.PaymentCompleted},
				&model.Reservation{ID: reservationID, ClientID: clientID, Status: model.ReservationConfirmed},
				nil
		},
	}
	router := newTestRouter(svc)

	body := `{"payment_method":"card"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reservations/res-1/payments", strings.NewReader(body))
	req.Header.Set("X-Client-ID", "client-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Payment     *model.Payment     `json:"payment"`
			Reservation *model.Reservation `json:"reservation"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Data.Payment == nil || resp.Data.Payment.ID != "pay-1" {
		t.Errorf("expected the payment in the response, got %+v", resp.Data.Payment)
	}
	if resp.Data.Reservation == nil || resp.Data.Reservation.Status != model.ReservationConfirmed {
		t.Errorf("expected the confirmed reservation in the response, got %+v", resp.Data.Reservation)
	}
}

func TestListPassesStatusAndPagination(t *testing.T) {
	var gotStatus model.ReservationStatus
	var gotPage, gotLimit int
	svc := &mockReservationService{
		listFunc: func(ctx context.Context, clientID string, status model.ReservationStatus, page, limit int) ([]*model.Reservation, int64, error) {
			gotStatus, gotPage, gotLimit = status, page, limit
			return []*model.Reservation{}, 0, nil
		},
	}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?status=confirmed&page=2&limit=5", nil)
	req.Header.Set("X-Client-ID", "client-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotStatus != model.ReservationConfirmed || gotPage != 2 || gotLimit != 5 {
		t.Errorf("unexpected passthrough: status=%s page=%d limit=%d", gotStatus, gotPage, gotLimit)
	}

	var resp struct {
		TotalCount int64 `json:"total_count"`
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Page != 2 || resp.Limit != 5 {
		t.Errorf("unexpected pagination echo: %+v", resp)
	}
}
