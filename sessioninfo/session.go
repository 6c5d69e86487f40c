package sessioninfo

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cccteam/ccc"
	"github.com/tenantflow/coordinator/internal/types"
)

// ctxKey is a type for storing values in the request context
type ctxKey string

const (
	// CtxSessionInfo is the key used to store the SessionInfo in the context.
	CtxSessionInfo ctxKey = "sessionInfo"
)

// FromRequest returns the session information from the request context.
func FromRequest(r *http.Request) *SessionInfo {
	return FromCtx(r.Context())
}

// FromCtx returns the session information from the context.
func FromCtx(ctx context.Context) *SessionInfo {
	sessionInfo, ok := ctx.Value(CtxSessionInfo).(*SessionInfo)
	if !ok {
		panic(fmt.Sprintf("failed to find %s in request context", CtxSessionInfo))
	}

	return sessionInfo
}

// IDFromRequest returns the sessionID from the request context.
func IDFromRequest(r *http.Request) ccc.UUID {
	return IDFromCtx(r.Context())
}

// IDFromCtx returns the sessionID from the context.
func IDFromCtx(ctx context.Context) ccc.UUID {
	sessionID, ok := ctx.Value(types.CTXSessionID).(ccc.UUID)
	if !ok {
		panic(fmt.Sprintf("failed to find %s in request context", types.CTXSessionID))
	}

	return sessionID
}
