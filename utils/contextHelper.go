package utils

import (
	"context"

	"github.com/mmsoftworks/campusfees_backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyStaffId       = appctx.ContextKeyStaffId
	ContextKeyStaffName     = appctx.ContextKeyStaffName
	ContextKeyStaffRole     = appctx.ContextKeyStaffRole
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetStaffIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyStaffId)
}

func GetStaffRoleFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyStaffRole)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetStaffIdInContext(ctx context.Context, staffId string) context.Context {
	return appctx.Set(ctx, ContextKeyStaffId, staffId)
}

func SetStaffNameInContext(ctx context.Context, name string) context.Context {
	return appctx.Set(ctx, ContextKeyStaffName, name)
}

func SetStaffRoleInContext(ctx context.Context, role string) context.Context {
	return appctx.Set(ctx, ContextKeyStaffRole, role)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
