package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/service"
)

type PartnershipHandler struct {
	partnerships service.PartnershipService
}

func NewPartnershipHandler(partnerships service.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{partnerships: partnerships}
}

func (h *PartnershipHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != domain.RoleStudent {
		writeError(w, domain.Forbiddenf("only students can send partnership requests"))
		return
	}
	var in struct {
		TargetID string `json:"targetId"`
		Message  string `json:"message"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	req, err := h.partnerships.Request(r.Context(), actor.ID, in.TargetID, in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, req)
}

func (h *PartnershipHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reqs, err := h.partnerships.ListForStudent(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, reqs)
}

func (h *PartnershipHandler) Respond(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in struct {
		Accept bool `json:"accept"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	req, err := h.partnerships.Respond(r.Context(), actor.ID, mux.Vars(r)["id"], in.Accept)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, req)
}

func (h *PartnershipHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.partnerships.Cancel(r.Context(), actor.ID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (h *PartnershipHandler) Unpair(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != domain.RoleStudent {
		writeError(w, domain.Forbiddenf("only students can unpair"))
		return
	}
	if err := h.partnerships.Unpair(r.Context(), actor.ID); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
