package handler

import (
	"net/http"
	"strconv"

	"voyago/internal/notifications/repository"
	"voyago/internal/notifications/service"
	apperrors "voyago/pkg/errors"
	httputil "voyago/pkg/http"
	"voyago/pkg/logger"
	"voyago/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type NotificationHandler struct {
	service service.NotificationService
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log,
	}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

	filter := repository.ListFilter{
		Type:  model.NotificationType(r.URL.Query().Get("type")),
		Page:  page,
		Limit: limit,
	}

	if s := r.URL.Query().Get("is_read"); s != "" {
		isRead, err := strconv.ParseBool(s)
		if err != nil {
			httputil.WriteError(w, apperrors.InvalidInput("invalid is_read parameter: "+s))
			return
		}
		filter.IsRead = &isRead
	}

	notifications, total, err := h.service.List(r.Context(), clientID, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, notifications, total, page, limit)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	count, err := h.service.UnreadCount(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]int64{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	notification, err := h.service.MarkRead(r.Context(), clientID, ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, notification)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	clientID, err := httputil.ExtractClientID(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	count, err := h.service.MarkAllRead(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, map[string]int64{"updated": count})
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/notifications", h.List)
	router.GET("/api/v1/notifications/unread-count", h.UnreadCount)
	router.PATCH("/api/v1/notifications/:id/read", h.MarkRead)
	router.POST("/api/v1/notifications/read-all", h.MarkAllRead)
}
