package handlers

import (
	"encoding/json"
	"errors"
	"flight-price-service/internal/api/dto"
	"flight-price-service/internal/services"
	"net/http"

	"github.com/rs/zerolog"
)

// UsersHandler exposes the registration and login endpoints.
type UsersHandler struct {
	Auth   *services.AuthService
	Logger zerolog.Logger
}

func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.RegisterRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidEmail),
			errors.Is(err, services.ErrPasswordTooShort),
			errors.Is(err, services.ErrEmailTaken):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			h.Logger.Error().Err(err).Msg("register failed")
			writeError(w, r, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RegisterResponse{Email: user.Email})
}

func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.LoginRequest
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, r, http.StatusBadRequest, "invalid credentials")
			return
		}
		h.Logger.Error().Err(err).Msg("login failed")
		writeError(w, r, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.LoginResponse{Token: result.Token, IsLogin: true})
}
