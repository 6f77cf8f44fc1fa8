package http

import (
	"net/http"

	"mentormatch-backend/internal/domain"
	"mentormatch-backend/internal/service"
)

type AuthHandler struct {
	auth service.AuthService
}

func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) SignupStudent(w http.ResponseWriter, r *http.Request) {
	var in service.SignupStudentInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	student, tokens, err := h.auth.SignupStudent(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"student": student, "tokens": tokens})
}

func (h *AuthHandler) SignupSupervisor(w http.ResponseWriter, r *http.Request) {
	var in service.SignupSupervisorInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	sup, tokens, err := h.auth.SignupSupervisor(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusCreated, map[string]any{"supervisor": sup, "tokens": tokens})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     domain.Role `json:"role"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	tokens, err := h.auth.Login(r.Context(), in.Email, in.Password, in.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tokens)
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, err)
		return
	}
	tokens, err := h.auth.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, tokens)
}
