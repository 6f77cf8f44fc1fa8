package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/service"
)

type CoSupervisionHandler struct {
	cosupervision service.SupervisorPartnershipService
}

func NewCoSupervisionHandler(cosupervision service.SupervisorPartnershipService) *CoSupervisionHandler {
	return &CoSupervisionHandler{cosupervision: cosupervision}
}

func (h *CoSupervisionHandler) Request(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != domain.RoleSupervisor {
		writeError(w, domain.Forbiddenf("only supervisors can send co-supervision requests"))
		return
	}
	var in struct {
		ProjectID string `json:"projectId"`
		TargetID  string `json:"targetId"`
		Message   string `json:"message"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	req, err := h.cosupervision.Request(r.Context(), in.ProjectID, actor.ID, in.TargetID, in.Message)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, req)
}

func (h *CoSupervisionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	reqs, err := h.cosupervision.ListForSupervisor(r.Context(), actor.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, reqs)
}

func (h *CoSupervisionHandler) Respond(w http.ResponseWriter, r *http.Request) {
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
	req, err := h.cosupervision.Respond(r.Context(), actor.ID, mux.Vars(r)["id"], in.Accept)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, req)
}

func (h *CoSupervisionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.cosupervision.Cancel(r.Context(), actor.ID, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func (h *CoSupervisionHandler) RemoveCoSupervisor(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.cosupervision.RemoveCoSupervisor(r.Context(), actor, mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, nil)
}
