package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/mileage/internal/domain"
)

func TestAuthMiddleware(t *testing.T) {
	jwtService := NewJWTService(testSecret)
	admin := domain.Principal{ID: "ops", Role: domain.RoleAdmin}
	valid, err := jwtService.GenerateJWT(admin, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{name: "Valid bearer token", header: "Bearer " + valid, expectedCode: http.StatusOK},
		{name: "Missing header", expectedCode: http.StatusUnauthorized},
		{name: "Wrong scheme", header: "Basic " + valid, expectedCode: http.StatusUnauthorized},
		{name: "Garbage token", header: "Bearer abc", expectedCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Principal
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			r := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(jwtService)(next).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				assert.Equal(t, admin, got)
			}
		})
	}
}
