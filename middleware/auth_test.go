package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-storefront/models"
	"go-storefront/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func tokenFor(t *testing.T, tm *utils.TokenManager, role models.Role) (string, *models.User) {
	t.Helper()
	u := &models.User{Base: models.Base{ID: primitive.NewObjectID()}, Email: "u@example.com", Role: role}
	token, err := tm.Generate(u)
	require.NoError(t, err)
	return token, u
}

// echoSubject answers 200 with the authenticated subject, or "anonymous"
var echoSubject = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		_, _ = w.Write([]byte(claims.Subject))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
})

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	tm := utils.NewTokenManager("s3cret", time.Hour)
	h := NewAuthenticator(tm).Authenticate(echoSubject)
	token, u := tokenFor(t, tm, models.RoleCustomer)

	rec := serve(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID.Hex(), rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Token "+token).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer nope").Code)

	other := utils.NewTokenManager("other", time.Hour)
	foreign, _ := tokenFor(t, other, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer "+foreign).Code)
}

func TestOptional(t *testing.T) {
	tm := utils.NewTokenManager("s3cret", time.Hour)
	h := NewAuthenticator(tm).Optional(echoSubject)
	token, u := tokenFor(t, tm, models.RoleCustomer)

	rec := serve(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = serve(h, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, u.ID.Hex(), rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(h, "Bearer nope").Code)
}

func TestRequireRoles(t *testing.T) {
	tm := utils.NewTokenManager("s3cret", time.Hour)
	auth := NewAuthenticator(tm)
	adminOnly := Chain(echoSubject, auth.Authenticate, RequireRoles(models.RoleAdmin))
	either := Chain(echoSubject, auth.Authenticate, RequireRoles(models.RoleAdmin, models.RoleCustomer))

	admin, _ := tokenFor(t, tm, models.RoleAdmin)
	customer, _ := tokenFor(t, tm, models.RoleCustomer)
	odd, _ := tokenFor(t, tm, models.Role("SUPPORT"))

	assert.Equal(t, http.StatusOK, serve(adminOnly, "Bearer "+admin).Code)
	assert.Equal(t, http.StatusForbidden, serve(adminOnly, "Bearer "+customer).Code)
	assert.Equal(t, http.StatusOK, serve(either, "Bearer "+customer).Code)
	assert.Equal(t, http.StatusForbidden, serve(either, "Bearer "+odd).Code)

	// without Authenticate in front there are no claims to check
	assert.Equal(t, http.StatusUnauthorized, serve(RequireRoles(models.RoleAdmin)(echoSubject), "Bearer "+admin).Code)
}
