package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/service"
)

type ApplicationHandler struct {
	apps service.ApplicationService
}

func NewApplicationHandler(apps service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps}
}

func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in service.CreateApplicationInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	app, err := h.apps.Create(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, app)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	app, err := h.apps.Get(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, app)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	status := domain.ApplicationStatus(r.URL.Query().Get("status"))
	apps, err := h.apps.ListForActor(r.Context(), actor, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, apps)
}

func (h *ApplicationHandler) Edit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in service.EditApplicationInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	app, err := h.apps.Edit(r.Context(), actor, mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Resubmit(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	app, err := h.apps.Resubmit(r.Context(), actor, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, app)
}

func (h *ApplicationHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in struct {
		Status   domain.ApplicationStatus `json:"status"`
		Feedback string                   `json:"feedback"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	app, err := h.apps.SetStatus(r.Context(), actor, mux.Vars(r)["id"], in.Status, in.Feedback)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.apps.Delete(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
