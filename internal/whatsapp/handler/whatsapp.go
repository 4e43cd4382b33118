package handler

import (
	"net/http"

	"voyago/internal/whatsapp/service"
	httputil "voyago/pkg/http"
	"voyago/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type WhatsAppHandler struct {
	service service.WhatsAppService
	log     *logger.Logger
}

func NewWhatsAppHandler(service service.WhatsAppService, log *logger.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		service: service,
		log:     log,
	}
}

type inquiryLinkResponse struct {
	Link string `json:"link"`
}

func (h *WhatsAppHandler) InquiryLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	query := r.URL.Query()

	link, err := h.service.InquiryLink(r.Context(), ps.ByName("id"), query.Get("name"), query.Get("phone"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, inquiryLinkResponse{Link: link})
}

func (h *WhatsAppHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/offers/:id/whatsapp-link", h.InquiryLink)
}
