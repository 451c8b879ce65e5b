package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromoIsCurrentlyActive(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name  string
		promo Promo
		want  bool
	}{
		{"open window", Promo{IsActive: true}, true},
		{"disabled", Promo{IsActive: false}, false},
		{"inside window", Promo{IsActive: true, StartDate: &past, EndDate: &future}, true},
		{"not started", Promo{IsActive: true, StartDate: &future}, false},
		{"expired", Promo{IsActive: true, EndDate: &past}, false},
		{"starts exactly now", Promo{IsActive: true, StartDate: &now}, true},
		{"ends exactly now", Promo{IsActive: true, EndDate: &now}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.IsCurrentlyActive(now))
		})
	}
}

func TestPromoAppliesTo(t *testing.T) {
	global := Promo{IsGlobal: true}
	scoped := Promo{ApplicableTreatments: []int64{1, 2}}

	assert.True(t, global.AppliesTo(99))
	assert.True(t, scoped.AppliesTo(2))
	assert.False(t, scoped.AppliesTo(3))
}
