package handler

import (
	"encoding/json"
	"net/http"

	"voyago/internal/reservations/service"
	httputil "voyago/pkg/http"
	"voyago/pkg/logger"
	"voyago/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(service service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var input model.ReservationCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	reservation, err := h.service.Create(r.Context(), clientID, &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, reservation)
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), clientID, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	page, limit, err := httputil.ExtractPageLimit(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	status := model.ReservationStatus(r.URL.Query().Get("status"))

	reservations, total, err := h.service.List(r.Context(), clientID, status, page, limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, reservations, total, page, limit)
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var input model.ReservationCancel
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
				Error: "Invalid request body",
			})
			return
		}
	}

	reservation, err := h.service.Cancel(r.Context(), clientID, ps.ByName("id"), &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, reservation)
}

func (h *ReservationHandler) CreatePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var input model.PaymentCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		})
		return
	}

	payment, reservation, err := h.service.CreatePayment(r.Context(), clientID, ps.ByName("id"), &input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, paymentResponse{
		Payment:     payment,
		Reservation: reservation,
	})
}

// paymentResponse pairs a settled payment with the reservation it
// confirmed.
type paymentResponse struct {
	Payment     *model.Payment     `json:"payment"`
	Reservation *model.Reservation `json:"reservation"`
}

func (h *ReservationHandler) ListPayments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	payments, err := h.service.ListPayments(r.Context(), clientID, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, payments)
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.List)
	router.GET("/api/v1/reservations/:id", h.GetByID)
	router.POST("/api/v1/reservations/:id/cancel", h.Cancel)
	router.POST("/api/v1/reservations/:id/payments", h.CreatePayment)
	router.GET("/api/v1/reservations/:id/payments", h.ListPayments)
}
