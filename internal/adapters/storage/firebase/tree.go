package firebase

import (
	"context"

	"firebase.google.com/go/v4/db"
)

// Tree es lo mínimo que usamos de la Realtime Database. Permite testear el repo
// sin un emulador.
type Tree interface {
	Get(ctx context.Context, path string, v any) error
	Set(ctx context.Context, path string, v any) error
	Delete(ctx context.Context, path string) error
	// EqualTo decodifica en v (un map) los hijos de path cuyo child == value.
	EqualTo(ctx context.Context, path, child, value string, v any) error
}

type rtdb struct {
	client *db.Client
}

// NewTree adapta un *db.Client (firebase app.Database) a Tree.
func NewTree(client *db.Client) Tree {
	return &rtdb{client: client}
}

func (t *rtdb) Get(ctx context.Context, path string, v any) error {
	return t.client.NewRef(path).Get(ctx, v)
}

func (t *rtdb) Set(ctx context.Context, path string, v any) error {
	return t.client.NewRef(path).Set(ctx, v)
}

func (t *rtdb) Delete(ctx context.Context, path string) error {
	return t.client.NewRef(path).Delete(ctx)
}

func (t *rtdb) EqualTo(ctx context.Context, path, child, value string, v any) error {
	return t.client.NewRef(path).OrderByChild(child).EqualTo(value).Get(ctx, v)
}
