package get_booking

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
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings"
	"github.com/m04kA/SMC-ClinicService/internal/service/bookings/models"
)

type fakeService struct {
	booking *models.BookingResponse
	err     error
}

func (f *fakeService) GetByID(_ context.Context, _ int64, _ domain.Actor) (*models.BookingResponse, error) {
	return f.booking, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func int64Ptr(v int64) *int64 { return &v }

func facialBooking() *models.BookingResponse {
	return &models.BookingResponse{
		ID:          7,
		UserID:      10,
		Type:        "treatment",
		Status:      "confirmed",
		TotalAmount: 390000,
		LineItems: []models.LineItemResponse{
			{
				TreatmentID: 42, TreatmentName: "Facial", Quantity: 2, Price: 150000, OriginalPrice: int64Ptr(200000), Subtotal: 300000,
				PromoApplied: &models.PromoSnapshotResponse{PromoID: 2, Name: "Autumn", DiscountType: "fixed"},
			},
			{TreatmentID: 43, TreatmentName: "Massage", Quantity: 1, Price: 90000, OriginalPrice: int64Ptr(90000), Subtotal: 90000},
		},
	}
}

func serve(svc BookingService, path string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/bookings/{bookingId}", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodGet)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.HeaderUserID, "10")
	req.Header.Set(middleware.HeaderUserRole, "customer")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Details(t *testing.T) {
	lockedAt := "2025-10-15T10:00:00Z"

	tests := []struct {
		name     string
		mutate   func(b *models.BookingResponse)
		editable bool
		reason   string
		items    int
		savings  int64
	}{
		{"editable", func(*models.BookingResponse) {}, true, "", 3, 100000},
		{"paid", func(b *models.BookingResponse) { b.IsLocked, b.LockedAt = true, &lockedAt }, false, "locked", 3, 100000},
		{"completed", func(b *models.BookingResponse) { b.Status = "completed" }, false, "closed", 3, 100000},
		{"consultation", func(b *models.BookingResponse) {
			b.Type, b.LineItems, b.ConsultationFee = "consultation", []models.LineItemResponse{}, 150000
		}, false, "consultation", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := facialBooking()
			tt.mutate(b)

			rec := serve(&fakeService{booking: b}, "/bookings/7")
			require.Equal(t, http.StatusOK, rec.Code)

			var resp map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, float64(7), resp["id"])
			assert.Equal(t, tt.editable, resp["editable"])
			if tt.reason == "" {
				assert.NotContains(t, resp, "editBlockedReason")
			} else {
				assert.Equal(t, tt.reason, resp["editBlockedReason"])
			}
			assert.Equal(t, float64(tt.items), resp["itemsCount"])
			assert.Equal(t, float64(tt.savings), resp["promoSavings"])
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		err    error
		status int
	}{
		{"bad id", "/bookings/abc", nil, http.StatusBadRequest},
		{"not found", "/bookings/7", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"foreign booking", "/bookings/7", bookings.ErrAccessDenied, http.StatusForbidden},
		{"internal", "/bookings/7", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, tt.path)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
