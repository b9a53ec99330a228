package controllers

import (
	"log/slog"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
)

// UserController handles user-related requests
type UserController struct {
	users *services.UserService
	log   *slog.Logger
}

func NewUserController(users *services.UserService, log *slog.Logger) *UserController {
	return &UserController{users: users, log: log}
}

// CreateUser adds a user (Admin only)
func (uc *UserController) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.CreateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := uc.users.Create(ctx, in)
	if err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, u)
}

// GetUsers lists users (Admin only)
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	page, err := uc.users.FindAll(ctx, pageQuery(r))
	if err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

// GetProfile retrieves the authenticated user
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := uc.users.FindOne(ctx, claims.Subject)
	if err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (uc *UserController) GetUserByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := uc.users.FindOne(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (uc *UserController) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UpdateUserInput
	if !decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()

	u, err := uc.users.Update(ctx, mux.Vars(r)["id"], in)
	if err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, u)
}

func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	if err := uc.users.Remove(ctx, mux.Vars(r)["id"]); err != nil {
		writeServiceError(w, uc.log, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
