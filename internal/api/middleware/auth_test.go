package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

func TestAuth(t *testing.T) {
	var got domain.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name     string
		userID   string
		role     string
		status   int
		expected domain.Actor
	}{
		{"customer by default", "10", "", http.StatusOK, domain.Actor{UserID: 10, Role: domain.RoleCustomer}},
		{"cashier", "2", "cashier", http.StatusOK, domain.Actor{UserID: 2, Role: domain.RoleCashier}},
		{"missing user", "", "", http.StatusUnauthorized, domain.Actor{}},
		{"negative user", "-1", "", http.StatusUnauthorized, domain.Actor{}},
		{"unknown role", "10", "root", http.StatusForbidden, domain.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = domain.Actor{}
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			Auth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.expected, got)
		})
	}
}
