// Package gate is the central authorization checkpoint of the platform.
// A Gate resolves a subject (here: a role name) to its capability profile,
// checks the requested resource:action permission against that profile, and
// optionally consults a resource-specific Policy (e.g. ownership). The
// package knows nothing about domain models and carries no dependencies.
//
// Generics allow any subject type:
//   - Gate[string] for role-name based capability checks
//   - Gate[uint] for user ID based checks
package gate

import "context"

// Gate checks permissions for subjects of type S.
// S must be comparable so the zero value can be rejected outright.
type Gate[S comparable] struct {
	resolver ProfileResolver[S]
	policies map[string]Policy[S]
}

// New creates a gate backed by the given profile resolver.
func New[S comparable](resolver ProfileResolver[S]) *Gate[S] {
	return &Gate[S]{
		resolver: resolver,
		policies: make(map[string]Policy[S]),
	}
}

// Register adds a resource-specific policy consulted after the profile
// permission check when a concrete resource is provided.
// Overwrites any existing policy for that resource type.
func (g *Gate[S]) Register(resourceType string, p Policy[S]) {
	g.policies[resourceType] = p
}

// Authorize checks, in order:
//  1. subject is valid (non-zero)
//  2. subject's profile grants resource:action
//  3. if a policy is registered and resource is non-nil, the policy agrees
//
// Returns ErrUnauthorized on any denial.
func (g *Gate[S]) Authorize(ctx context.Context, subject S, action Action, resourceType string, resource any) error {
	var zero S
	if subject == zero {
		return ErrUnauthorized
	}
	profile, err := g.resolver.Resolve(ctx, subject)
	if err != nil || profile == nil {
		return ErrUnauthorized
	}
	if !profile.HasPermission(NewPermission(resourceType, action)) {
		return ErrUnauthorized
	}
	if resource != nil {
		if policy, ok := g.policies[resourceType]; ok {
			if !policy.Can(ctx, subject, action, resource) {
				return ErrUnauthorized
			}
		}
	}
	return nil
}

// Can is a convenience wrapper returning bool instead of error.
func (g *Gate[S]) Can(ctx context.Context, subject S, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, subject, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission, skipping resource policies.
// Used by the dashboard layer to show or hide controls before a specific
// record is loaded.
func (g *Gate[S]) CanProfile(ctx context.Context, subject S, action Action, resourceType string) bool {
	var zero S
	if subject == zero {
		return false
	}
	profile, err := g.resolver.Resolve(ctx, subject)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}
