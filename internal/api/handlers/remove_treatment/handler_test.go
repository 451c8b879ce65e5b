package remove_treatment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/api/middleware"
	"github.com/m04kA/SMC-ClinicService/internal/domain"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ClinicService/internal/service/ledger"
)

type fakeLedger struct {
	err error

	bookingID   int64
	treatmentID int64
	actorID     int64
}

func (f *fakeLedger) RemoveTreatment(_ context.Context, bookingID, treatmentID int64, actorID int64) (*ledger.Result, error) {
	f.bookingID, f.treatmentID, f.actorID = bookingID, treatmentID, actorID
	if f.err != nil {
		return nil, f.err
	}

	removed := domain.BookingLineItem{ID: 1, BookingID: bookingID, TreatmentID: treatmentID, TreatmentName: "Facial", Quantity: 1, Price: 150000}
	booking := &domain.Booking{ID: bookingID, UserID: 10, Type: domain.TypeTreatment, Status: domain.StatusConfirmed, TotalAmount: 90000}
	booking.LineItems = []domain.BookingLineItem{{ID: 2, BookingID: bookingID, TreatmentID: 43, TreatmentName: "Massage", Quantity: 1, Price: 90000}}
	audit := &domain.AuditEntry{ID: 6, BookingID: bookingID, ActorID: actorID, Action: domain.AuditRemoveTreatment, PreviousTotal: 240000, NewTotal: 90000}
	return &ledger.Result{Booking: booking, LineItem: &removed, Audit: audit}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(l Ledger, role, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/bookings/{bookingId}/treatments/{treatmentId}", NewHandler(l, nopLogger{}).Handle).Methods(http.MethodDelete)

	req := httptest.NewRequest(http.MethodDelete, path, nil)
	req.Header.Set(middleware.HeaderUserID, "3")
	req.Header.Set(middleware.HeaderUserRole, role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	l := &fakeLedger{}
	rec := serve(l, "staff", "/bookings/7/treatments/42")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), l.bookingID)
	assert.Equal(t, int64(42), l.treatmentID)
	assert.Equal(t, int64(3), l.actorID)

	var resp models.LedgerChangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(90000), resp.Booking.TotalAmount)
	assert.Equal(t, int64(42), resp.LineItem.TreatmentID)
	assert.Equal(t, "remove_treatment", resp.Audit.Action)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		path   string
		err    error
		status int
	}{
		{"customer", "customer", "/bookings/7/treatments/42", nil, http.StatusForbidden},
		{"bad booking id", "staff", "/bookings/abc/treatments/42", nil, http.StatusBadRequest},
		{"bad treatment id", "staff", "/bookings/7/treatments/0", nil, http.StatusBadRequest},
		{"booking not found", "staff", "/bookings/7/treatments/42", ledger.ErrBookingNotFound, http.StatusNotFound},
		{"line item not found", "staff", "/bookings/7/treatments/42", ledger.ErrLineItemNotFound, http.StatusNotFound},
		{"locked", "cashier", "/bookings/7/treatments/42", ledger.ErrBookingLocked, http.StatusConflict},
		{"closed", "staff", "/bookings/7/treatments/42", ledger.ErrBookingClosed, http.StatusConflict},
		{"concurrent", "staff", "/bookings/7/treatments/42", ledger.ErrConcurrentUpdate, http.StatusConflict},
		{"internal", "admin", "/bookings/7/treatments/42", ledger.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &fakeLedger{err: tt.err}
			rec := serve(l, tt.role, tt.path)
			assert.Equal(t, tt.status, rec.Code)
			if tt.err == nil {
				assert.Zero(t, l.bookingID)
			}
		})
	}
}
