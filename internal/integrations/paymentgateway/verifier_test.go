package paymentgateway

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
)

func settlement() Notification {
	return Notification{
		OrderID:           "BK-7-1",
		Provider:          domain.ProviderMidtrans,
		TransactionStatus: "settlement",
		GrossAmount:       240000,
	}
}

func TestVerify(t *testing.T) {
	v := NewVerifier("secret")

	token, err := v.Sign(settlement(), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	require.NoError(t, err)

	n, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, settlement(), *n)
}

func TestVerify_Rejects(t *testing.T) {
	v := NewVerifier("secret")

	foreign, err := NewVerifier("other").Sign(settlement(), jwt.RegisteredClaims{})
	require.NoError(t, err)

	expired, err := v.Sign(settlement(), jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	require.NoError(t, err)

	cash := settlement()
	cash.Provider = domain.ProviderCash
	cashToken, err := v.Sign(cash, jwt.RegisteredClaims{})
	require.NoError(t, err)

	noOrder := settlement()
	noOrder.OrderID = ""
	noOrderToken, err := v.Sign(noOrder, jwt.RegisteredClaims{})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, notificationClaims{Notification: settlement()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"wrong secret", foreign, ErrInvalidToken},
		{"expired", expired, ErrInvalidToken},
		{"alg none", none, ErrInvalidToken},
		{"garbage", "not-a-token", ErrInvalidToken},
		{"manual provider", cashToken, ErrInvalidNotification},
		{"missing order id", noOrderToken, ErrInvalidNotification},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapStatus(t *testing.T) {
	tests := map[string]domain.PaymentStatus{
		"settlement": domain.PaymentPaid,
		"capture":    domain.PaymentPaid,
		"SUCCESS":    domain.PaymentPaid,
		"expire":     domain.PaymentExpired,
		"EXPIRED":    domain.PaymentExpired,
		"deny":       domain.PaymentFailed,
		"cancel":     domain.PaymentFailed,
		"failure":    domain.PaymentFailed,
		"FAILED":     domain.PaymentFailed,
		"pending":    domain.PaymentPending,
	}

	for in, want := range tests {
		got, err := MapStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := MapStatus("refund")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
