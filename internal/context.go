package internal

import (
	"context"

	"github.com/frahmantamala/workspace-booking/pkg/logger"
)

type ctxKey string

const ContextUserKey ctxKey = "userID"

// ContextWithUserID stores the acting user id and tags the context logger with it.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	ctx = context.WithValue(ctx, ContextUserKey, userID)
	return logger.With(ctx, "user_id", userID)
}
