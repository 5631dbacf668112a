package api

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/middlewares"
	"kitchen_dashboard/internal/notifications"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type APIHandler struct {
	h          *handlers.Handler
	pagination *middlewares.PaginationConfig
}

func NewAPIHandler(h *handlers.Handler) *APIHandler {
	cfg := middlewares.DefaultPaginationConfig()
	cfg.Logger = h.Logger
	return &APIHandler{h: h, pagination: cfg}
}

// NotificationsResponse is the body of GET /api/notifications
type NotificationsResponse struct {
	Notifications []notifications.Notification `json:"notifications"`
	UnreadCount   int                          `json:"unread_count"`
	Pagination    *middlewares.PaginationMeta  `json:"pagination"`
}

// ListNotifications returns one page of notifications and the unread count of the whole list
func (a *APIHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := a.h.Notifications.List(r.Context())
	if err != nil {
		config.RespondError(w, http.StatusServiceUnavailable, "Notifications unavailable", err.Error(), a.h.Logger)
		return
	}

	params := middlewares.ParsePagination(r, a.pagination)
	params.SetTotal(int64(len(list)))
	start, end := params.Bounds(len(list))

	page := list[start:end]
	if page == nil {
		page = []notifications.Notification{}
	}

	config.RespondJSON(w, http.StatusOK, NotificationsResponse{
		Notifications: page,
		UnreadCount:   notifications.UnreadCount(list),
		Pagination:    params.BuildMeta(),
	})
}

// ConfigStatus reports which integration credentials are configured
func (a *APIHandler) ConfigStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.h.Checker.Status(r.Context())
	if err != nil {
		config.RespondError(w, http.StatusServiceUnavailable, "Configuration status unavailable", err.Error(), a.h.Logger)
		return
	}

	config.RespondJSON(w, http.StatusOK, status)
}

// ExportNotifications downloads the notification list as an xlsx workbook
func (a *APIHandler) ExportNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := a.h.Notifications.List(r.Context())
	if err != nil {
		config.RespondError(w, http.StatusServiceUnavailable, "Notifications unavailable", err.Error(), a.h.Logger)
		return
	}

	var buf bytes.Buffer
	if err := notifications.ExportXLSX(&buf, list); err != nil {
		config.RespondInternalError(w, err, a.h.Logger)
		return
	}

	filename := fmt.Sprintf("notifications-%s.xlsx", time.Now().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		a.h.Logger.Debug("failed to write export", "error", err)
	}

	a.h.Logger.Info("notifications exported", "rows", len(list))
}
