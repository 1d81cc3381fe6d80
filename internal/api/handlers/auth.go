package handlers

import (
	"errors"
	"net/http"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/api/problem"
	"github.com/gatherly/server/internal/domain/users"
)

type AuthHandler struct {
	Service *users.Service
	Env     string
}

func NewAuthHandler(service *users.Service, env string) *AuthHandler {
	return &AuthHandler{Service: service, Env: env}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input loginRequest
	if !decodeBody(w, r, &input, h.Env) {
		return
	}

	fields := make(map[string][]string)
	if input.Email == "" {
		fields["email"] = append(fields["email"], "The email field is required.")
	}
	if input.Password == "" {
		fields["password"] = append(fields["password"], "The password field is required.")
	}
	if len(fields) > 0 {
		problem.Write(w, r, http.StatusUnprocessableEntity, problem.TypeValidation, "The given data was invalid.", nil, h.Env,
			problem.WithFieldErrors(fields))
		return
	}

	token, err := h.Service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Unauthenticated", err, h.Env,
				problem.WithDetail("The provided credentials are incorrect."))
			return
		}
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Logout is an acknowledgement only; tokens are stateless and expire on
// their own.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "You are logged out."})
}

// User returns the authenticated actor's profile.
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.Get(r.Context(), middleware.ActorID(r))
	if err != nil {
		writeDomainError(w, r, err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, itemEnvelope{Data: map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	}})
}
