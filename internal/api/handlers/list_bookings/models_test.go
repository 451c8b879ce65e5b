package list_bookings

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

func TestToServiceRequest(t *testing.T) {
	staff := domain.Actor{UserID: 1, Role: domain.RoleStaff}

	req, err := ToServiceRequest(staff, url.Values{
		"userId":          {"10"},
		"status":          {"confirmed"},
		"date":            {"2025-10-15"},
		"includeInactive": {"true"},
	})
	require.NoError(t, err)
	assert.Equal(t, staff, req.Actor)
	assert.Equal(t, int64(10), *req.UserID)
	assert.Equal(t, "confirmed", *req.Status)
	assert.Equal(t, time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), *req.StartDate)
	assert.Equal(t, time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), *req.EndDate)
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(staff, url.Values{"from": {"2025-10-01T08:00:00Z"}, "to": {"2025-11-01"}})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC), *req.StartDate)
	assert.Equal(t, time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC), *req.EndDate)
	assert.Nil(t, req.UserID)
	assert.False(t, req.IncludeInactive)

	for _, bad := range []url.Values{
		{"userId": {"abc"}},
		{"date": {"15.10.2025"}},
		{"from": {"yesterday"}},
		{"includeInactive": {"maybe"}},
	} {
		_, err := ToServiceRequest(staff, bad)
		assert.Error(t, err, bad.Encode())
	}
}
