// Package userctx carries the authenticated operator on a request context.
package userctx

import "context"

type contextKey string

const (
	operatorIDKey   contextKey = "operator_id"
	operatorNameKey contextKey = "operator_name"
)

// SetOperator adds the operator's subject and display name to ctx
func SetOperator(ctx context.Context, id, name string) context.Context {
	ctx = context.WithValue(ctx, operatorIDKey, id)
	return context.WithValue(ctx, operatorNameKey, name)
}

// GetOperatorID retrieves the operator subject, or "" when unauthenticated
func GetOperatorID(ctx context.Context) string {
	id, _ := ctx.Value(operatorIDKey).(string)
	return id
}

// GetOperatorName retrieves the operator display name
func GetOperatorName(ctx context.Context) string {
	name, ok := ctx.Value(operatorNameKey).(string)
	if !ok || name == "" {
		return "anonymous"
	}
	return name
}
