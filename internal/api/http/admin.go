package http

import (
	"net/http"
	"strconv"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/service"
)

type AdminHandler struct {
	admin service.AdminService
}

func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	stats, err := h.admin.Stats(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func (h *AdminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))
	apps, err := h.admin.ListApplications(r.Context(), actor, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, apps)
}

func (h *AdminHandler) AuditTrail(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	events, err := h.admin.AuditTrail(r.Context(), actor, q.Get("entityType"), q.Get("entityId"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, events)
}
