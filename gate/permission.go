package gate

import "strings"

// Permission represents an allowed action on a resource type.
// Format: "resource:action" (e.g., "commande:validate", "correction:create")
type Permission string

// NewPermission creates a permission from resource type and action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resourceType string, action Action) {
	parts := strings.SplitN(string(p), ":", 2)
	if len(parts) != 2 {
		return "", ""
	}
	return parts[0], Action(parts[1])
}

// Wildcards for broad grants.
const (
	WildcardAll             = "*"
	PermissionFullAuthority Permission = "*:*"
)

// Matches checks if this permission covers a requested permission.
// Supports wildcards: "*:*" matches all, "commande:*" matches every
// commande action, "*:view" matches viewing any resource.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionFullAuthority {
		return true
	}
	if p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, reqAct := requested.Parse()
	if res == reqRes && string(act) == WildcardAll {
		return true
	}
	if res == WildcardAll && act == reqAct {
		return true
	}
	return false
}
