package usecase

import (
	"context"
	"reflect"

	"github.com/m-mizutani/goerr/v2"

	"adowatch/pkg/domain/types"
)

// fetch applies uniform failure translation to one client call site.
// Transport-tagged errors become transient update failures that keep their
// cause for diagnostics; an absent result becomes a transient update failure
// with a descriptive message. Every other error passes through untouched, so
// auth failures raised inside op keep their own tag.
func fetch[T any](ctx context.Context, name string, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	result, err := op(ctx)
	if err != nil {
		if types.IsTransport(err) {
			return zero, goerr.Wrap(err, "update failed",
				goerr.T(types.TagUpdateFailed), goerr.V("operation", name))
		}
		return zero, err
	}

	if isAbsent(result) {
		return zero, goerr.New("no data returned from Azure DevOps",
			goerr.T(types.TagUpdateFailed), goerr.V("operation", name))
	}

	return result, nil
}

// isAbsent reports whether a result counts as "no data". Only nil-able kinds
// can be absent; an empty but present list is still data.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
