package controllers

import (
	"log/slog"
	"net/http"

	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"
)

// AuthController handles login and registration
type AuthController struct {
	auth *services.AuthService
	log  *slog.Logger
}

func NewAuthController(auth *services.AuthService, log *slog.Logger) *AuthController {
	return &AuthController{auth: auth, log: log}
}

// Login handles user login and JWT generation
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decodeJSON(w, r, &creds) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	token, err := ac.auth.Login(ctx, creds)
	if err != nil {
		writeServiceError(w, ac.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"access_token": token})
}

// Register handles user registration
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := ac.auth.Register(ctx, in)
	if err != nil {
		writeServiceError(w, ac.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, u)
}
