package gate

import "context"

// Policy defines resource-level authorization rules consulted after the
// profile permission check. S is the subject type.
type Policy[S any] interface {
	// Can returns true if subject may perform action on resource.
	// For list/create, resource may be nil (profile-only check).
	Can(ctx context.Context, subject S, action Action, resource any) bool
}

// PolicyFunc adapts a function to the Policy interface.
type PolicyFunc[S any] func(ctx context.Context, subject S, action Action, resource any) bool

func (f PolicyFunc[S]) Can(ctx context.Context, subject S, action Action, resource any) bool {
	return f(ctx, subject, action, resource)
}
