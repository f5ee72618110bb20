package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken lo devuelven los verifiers ante token vacío, inválido o expirado.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims es la identidad verificada que viaja en el context del request.
type Claims struct {
	UserID string
	Email  string

	// TenantID solo viene cuando el proveedor usa multi-tenancy.
	TenantID string
}

// AuthVerifier verifica un bearer token contra el proveedor de identidad.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
