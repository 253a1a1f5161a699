package auth

import (
	"context"

	"github.com/frahmantamala/order-admin/internal"
	"github.com/frahmantamala/order-admin/internal/user"
)

type ctxKey struct{}

// ContextWithUser stores the session user and its id on ctx.
func ContextWithUser(ctx context.Context, u *user.User) context.Context {
	ctx = internal.ContextWithUserID(ctx, u.ID)
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(*user.User)
	return u, ok && u != nil
}
