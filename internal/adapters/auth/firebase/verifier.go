package firebase

import (
	"context"
	"fmt"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"

	"pet-health-chat/internal/ports/auth"
)

// TokenVerifier es la parte de *fbauth.Client que usamos.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// Verifier valida ID tokens de Firebase Auth.
type Verifier struct {
	client TokenVerifier
}

func NewVerifier(client TokenVerifier) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	t, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if t == nil || strings.TrimSpace(t.UID) == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	c := auth.Claims{UserID: t.UID, TenantID: t.Firebase.Tenant}
	if email, ok := t.Claims["email"].(string); ok {
		c.Email = email
	}
	return c, nil
}
