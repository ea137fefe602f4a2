package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"secure-file-share/internal/model"
	"secure-file-share/internal/service"
	"secure-file-share/pkg/apierror"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := validate.Struct(payload); err != nil {
		writeError(w, apierror.BadRequest("invalid signup payload", err.Error()))
		return
	}

	role, err := model.ParseRole(payload.UserType)
	if err != nil {
		writeError(w, err)
		return
	}

	if _, err := h.service.Signup(r.Context(), payload.Email, payload.Password, role); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Account created successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := validate.Struct(payload); err != nil {
		writeError(w, apierror.BadRequest("invalid login payload", err.Error()))
		return
	}

	tokens, err := h.service.Login(r.Context(), payload.Email, payload.Password, payload.UserType)
	if err != nil {
		writeError(w, err)
		return
	}

	// Flat body: access_token and token_type at the top level.
	writeJSON(w, http.StatusOK, tokens)
}
