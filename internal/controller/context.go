package controller

import (
	"context"

	"github.com/sharetube/seekguard/pkg/wsrouter"
)

type contextKey int

const (
	sessionIdCtxKey contextKey = iota
	wsRouterCtxKey
)

func (c controller) getSessionIdFromCtx(ctx context.Context) string {
	sessionId, ok := ctx.Value(sessionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return sessionId
}

func (c controller) getWSRouterFromCtx(ctx context.Context) *wsrouter.WSRouter {
	mux, ok := ctx.Value(wsRouterCtxKey).(*wsrouter.WSRouter)
	if !ok {
		return nil
	}

	return mux
}
