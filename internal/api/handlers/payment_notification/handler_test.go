package payment_notification

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicService/internal/service/payments"
	"github.com/m04kA/SMC-ClinicService/internal/service/payments/models"
)

type fakeService struct {
	token string
	err   error
}

func (f *fakeService) HandleNotification(_ context.Context, token string) (*models.PaymentResponse, error) {
	f.token = token
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentResponse{ID: 1, BookingID: 7, OrderID: "BK-7-1", Status: "paid", BookingLocked: true}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"paid", `{"token": "abc"}`, nil, http.StatusOK},
		{"empty token", `{"token": ""}`, nil, http.StatusBadRequest},
		{"garbage body", `token=abc`, nil, http.StatusBadRequest},
		{"bad signature", `{"token": "abc"}`, fmt.Errorf("%w: signature is invalid", payments.ErrInvalidNotification), http.StatusUnauthorized},
		{"unknown order", `{"token": "abc"}`, payments.ErrPaymentNotFound, http.StatusNotFound},
		{"amount mismatch", `{"token": "abc"}`, payments.ErrAmountMismatch, http.StatusBadRequest},
		{"stale payment", `{"token": "abc"}`, payments.ErrStalePayment, http.StatusConflict},
		{"concurrent", `{"token": "abc"}`, payments.ErrConcurrentPayment, http.StatusConflict},
		{"internal", `{"token": "abc"}`, payments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			req := httptest.NewRequest(http.MethodPost, "/payments/notifications", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			NewHandler(svc, nopLogger{}).Handle(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "abc", svc.token)
				assert.Contains(t, rec.Body.String(), `"bookingLocked":true`)
			}
		})
	}
}
