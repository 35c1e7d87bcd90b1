package log

import "context"

type fieldsKey struct{}

// WithFields returns a context carrying key/value pairs that the logger attaches to every entry.
// Fields accumulate across calls.
func WithFields(ctx context.Context, keysAndValues ...interface{}) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	existing := fieldsFromContext(ctx)
	merged := make([]interface{}, 0, len(existing)+len(keysAndValues))
	merged = append(merged, existing...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func fieldsFromContext(ctx context.Context) []interface{} {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey{}).([]interface{})
	return fields
}
