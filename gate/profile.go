package gate

import "context"

// Profile is a named set of permissions.
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile.
type ProfileResolver[S any] interface {
	Resolve(ctx context.Context, subject S) (Profile, error)
}

// StaticProfile is an in-memory profile implementation, used for the
// platform's fixed role table and in tests.
type StaticProfile struct {
	name        string
	permissions map[Permission]bool
}

// NewStaticProfile creates a profile with the given permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	p := &StaticProfile{
		name:        name,
		permissions: make(map[Permission]bool),
	}
	for _, perm := range permissions {
		p.permissions[perm] = true
	}
	return p
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns all permissions in this profile.
func (p *StaticProfile) Permissions() []Permission {
	perms := make([]Permission, 0, len(p.permissions))
	for perm := range p.permissions {
		perms = append(perms, perm)
	}
	return perms
}

// HasPermission checks if the profile covers the requested permission,
// including wildcard grants.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	for perm := range p.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps subjects to profiles in memory.
type StaticResolver[S comparable] struct {
	profiles map[S]Profile
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver[S comparable]() *StaticResolver[S] {
	return &StaticResolver[S]{profiles: make(map[S]Profile)}
}

// Set assigns a profile to a subject.
func (r *StaticResolver[S]) Set(subject S, profile Profile) {
	r.profiles[subject] = profile
}

// Resolve returns the profile for the given subject, or nil if unknown.
func (r *StaticResolver[S]) Resolve(_ context.Context, subject S) (Profile, error) {
	if profile, ok := r.profiles[subject]; ok {
		return profile, nil
	}
	return nil, nil
}
