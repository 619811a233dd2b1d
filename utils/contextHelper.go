package utils

import "context"

type contextKey string

const (
	ContextKeyUserId        contextKey = "user_id"
	ContextKeyUserEmail     contextKey = "user_email"
	ContextKeyUserRole      contextKey = "user_role"
	ContextKeyCorrelationId contextKey = "correlation_id"
)

func getString(ctx context.Context, key contextKey) (string, bool) {
	v, ok := ctx.Value(key).(string)
	return v, ok
}

func getInt(ctx context.Context, key contextKey) (int, bool) {
	v, ok := ctx.Value(key).(int)
	return v, ok
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return getInt(ctx, ContextKeyUserId)
}

func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyUserEmail)
}

func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyUserRole)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return getString(ctx, ContextKeyCorrelationId)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return context.WithValue(ctx, ContextKeyUserId, userId)
}

func SetUserEmailInContext(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyUserEmail, email)
}

func SetUserRoleInContext(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ContextKeyUserRole, role)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return context.WithValue(ctx, ContextKeyCorrelationId, correlationId)
}
