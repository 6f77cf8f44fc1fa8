package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"mentormatch-backend/internal/service"
)

type StudentHandler struct {
	students service.StudentService
}

func NewStudentHandler(students service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

func (h *StudentHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	if id == "me" {
		id = actor.ID
	}
	student, err := h.students.GetProfile(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, student)
}

func (h *StudentHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var in service.UpdateStudentProfileInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	student, err := h.students.UpdateProfile(r.Context(), actor, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, student)
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	students, err := h.students.List(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, students)
}

func (h *StudentHandler) ListAvailablePartners(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	students, err := h.students.ListAvailablePartners(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, students)
}
