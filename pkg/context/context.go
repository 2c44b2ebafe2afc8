package context

import "context"

type ContextKey string

var (
	RequestIDKey   = ContextKey("X-Request-Id")
	MethodKey      = ContextKey("X-Method")
	RouteKey       = ContextKey("X-Route")
	RemoteIPKey    = ContextKey("X-Remote-Ip")
	WorkspaceIDKey = ContextKey("X-Tenant-Id")
	UserIDKey      = ContextKey("X-User-Id")
)

func setValue(ctx context.Context, key ContextKey, value string) context.Context {
	return context.WithValue(ctx, key, value)
}

func getValue(ctx context.Context, key ContextKey) string {
	value, ok := ctx.Value(key).(string)
	if !ok {
		return ""
	}
	return value
}

func SetRequestID(ctx context.Context, requestID string) context.Context {
	return setValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	return getValue(ctx, RequestIDKey)
}

func SetMethod(ctx context.Context, method string) context.Context {
	return setValue(ctx, MethodKey, method)
}

func GetMethod(ctx context.Context) string {
	return getValue(ctx, MethodKey)
}

func SetRoute(ctx context.Context, route string) context.Context {
	return setValue(ctx, RouteKey, route)
}

func GetRoute(ctx context.Context) string {
	return getValue(ctx, RouteKey)
}

func SetRemoteIP(ctx context.Context, remoteIP string) context.Context {
	return setValue(ctx, RemoteIPKey, remoteIP)
}

func GetRemoteIP(ctx context.Context) string {
	return getValue(ctx, RemoteIPKey)
}

// SetWorkspaceID stores the destination workspace (tenant) for the request.
func SetWorkspaceID(ctx context.Context, workspaceID string) context.Context {
	return setValue(ctx, WorkspaceIDKey, workspaceID)
}

func GetWorkspaceID(ctx context.Context) string {
	return getValue(ctx, WorkspaceIDKey)
}

func SetUserID(ctx context.Context, userID string) context.Context {
	return setValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	return getValue(ctx, UserIDKey)
}
