package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/services"
	"go-storefront/utils"
)

const (
	requestTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}

// pageQuery reads page, limit and search; bad numbers fall back to defaults
func pageQuery(r *http.Request) models.PageQuery {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return models.PageQuery{Page: page, Limit: limit, Search: q.Get("search")}.Normalize()
}

// writeServiceError maps service errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *services.ValidationError
	var missing *services.MissingProductsError

	switch {
	case errors.As(err, &verr):
		utils.WriteError(w, http.StatusBadRequest, "Validation failed", verr.Fields)
	case errors.As(err, &missing):
		utils.WriteError(w, http.StatusNotFound, missing.Error(), map[string][]string{"ids": missing.IDs})
	case errors.Is(err, services.ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrUnauthorized):
		utils.WriteError(w, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, services.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		utils.WriteError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		log.Warn("request timed out", "err", err)
		utils.WriteError(w, http.StatusGatewayTimeout, "Request timed out", nil)
	default:
		log.Error("request failed", "err", err)
		utils.WriteError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
