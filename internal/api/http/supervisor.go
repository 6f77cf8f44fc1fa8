package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mentormatch-backend/internal/service"
)

type SupervisorHandler struct {
	supervisors service.SupervisorService
}

func NewSupervisorHandler(supervisors service.SupervisorService) *SupervisorHandler {
	return &SupervisorHandler{supervisors: supervisors}
}

func (h *SupervisorHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if id == "me" {
		id = actor.ID
	}
	sup, err := h.supervisors.GetProfile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sup)
}

func (h *SupervisorHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in service.UpdateSupervisorProfileInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sup, err := h.supervisors.UpdateProfile(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sup)
}

func (h *SupervisorHandler) SetCapacity(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if id == "me" {
		id = actor.ID
	}
	var in struct {
		MaxCapacity int `json:"maxCapacity"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sup, err := h.supervisors.SetMaxCapacity(r.Context(), actor, id, in.MaxCapacity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, sup)
}

func (h *SupervisorHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}
	supervisors, err := h.supervisors.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, supervisors)
}
