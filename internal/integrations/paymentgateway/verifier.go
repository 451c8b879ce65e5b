package paymentgateway

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier проверяет уведомления шлюза, подписанные общим секретом (HS256)
type Verifier struct {
	secret []byte
}

// NewVerifier создает новый экземпляр верификатора
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify проверяет подпись токена и возвращает уведомление
func (v *Verifier) Verify(token string) (*Notification, error) {
	var claims notificationClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	n := claims.Notification
	if n.OrderID == "" || n.TransactionStatus == "" {
		return nil, fmt.Errorf("%w: order_id and transaction_status are required", ErrInvalidNotification)
	}
	if !n.Provider.IsGateway() {
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrInvalidNotification, n.Provider)
	}
	if n.GrossAmount < 0 {
		return nil, fmt.Errorf("%w: negative gross_amount", ErrInvalidNotification)
	}

	return &n, nil
}

// Sign подписывает уведомление; используется в тестах и локальной отладке шлюза
func (v *Verifier) Sign(n Notification, claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, notificationClaims{
		Notification:     n,
		RegisteredClaims: claims,
	})
	return token.SignedString(v.secret)
}
