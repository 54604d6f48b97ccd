package taskid

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

const maxIDLength = 128

var validIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// New returns a fresh random task id.
func New() string {
	return uuid.NewString()
}

// Valid reports whether id is safe to reuse as a task id.
func Valid(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}

// Ensure returns ctx carrying a task id. A valid id already stored in ctx is
// reused so nested dispatches share one correlation id; otherwise a new id is
// generated and attached.
func Ensure(ctx context.Context) (context.Context, string) {
	if ctx == nil {
		ctx = context.Background()
	}
	if id := FromContext(ctx); Valid(id) {
		return ctx, id
	}
	id := New()
	return WithContext(ctx, id), id
}
