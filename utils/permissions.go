package utils

import "strings"

// Back-office permissions have the form "surface:action", for example
// "recycled_factory:restore" or "factory:view". Either part may be "*".
const (
	ActionView = "view"
	Wildcard   = "*"
)

// Permission builds the permission string for an action on a surface.
func Permission(surface, action string) string {
	return surface + ":" + action
}

// MatchesPermission checks if a granted permission covers the required one.
//
//   - "*" or "*:*" covers everything
//   - "factory:*" covers every action on the factory surface
//   - "*:view" covers viewing every surface
//
// Strings without a colon only match exactly.
func MatchesPermission(granted, required string) bool {
	if granted == required {
		return true
	}
	if granted == Wildcard || granted == "*:*" {
		return true
	}

	g := strings.SplitN(granted, ":", 2)
	r := strings.SplitN(required, ":", 2)
	if len(g) < 2 || len(r) < 2 {
		return false
	}

	surfaceMatch := g[0] == Wildcard || g[0] == r[0]
	actionMatch := g[1] == Wildcard || g[1] == r[1]
	return surfaceMatch && actionMatch
}

// HasPermission reports whether any granted permission covers required.
func HasPermission(granted []string, required string) bool {
	for _, p := range granted {
		if MatchesPermission(p, required) {
			return true
		}
	}
	return false
}
