package permissions

import (
	"sort"

	"github.com/wasiqzahoor/erp-system/internal/models"
)

// Reason explains an authorization decision for diagnostics. Allow and deny
// reasons map onto the same two externally visible outcomes; the distinction
// only surfaces in logs and metrics.
type Reason string

const (
	ReasonGlobal            Reason = "global"
	ReasonOverrideGranted   Reason = "override_granted"
	ReasonOverrideRevoked   Reason = "override_revoked"
	ReasonRoleGranted       Reason = "role_granted"
	ReasonPermissionMissing Reason = "permission_missing"
)

// Decision is the outcome of a single permission evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Snapshot is a flat, immutable view of one user's authorization state,
// assembled once from a freshly loaded user record. All checks within a
// request evaluate against the same snapshot; nothing is cached across
// requests, so role or override edits take effect on the next request.
type Snapshot struct {
	UserID   string
	TenantID string
	Global   bool
	Rank     Level

	overrides map[string]bool
	rolePerms map[string]struct{}
}

// NewSnapshot flattens the user's role and override graph. The user must have
// Roles.Permissions and Overrides preloaded; missing associations simply
// yield an empty permission set.
func NewSnapshot(user *models.User) *Snapshot {
	snap := &Snapshot{
		overrides: make(map[string]bool, len(user.Overrides)),
		rolePerms: make(map[string]struct{}),
	}

	snap.UserID = user.ID
	if user.TenantID != nil {
		snap.TenantID = *user.TenantID
	}
	snap.Global = user.IsGlobal

	roleNames := make([]string, 0, len(user.Roles))
	for _, role := range user.Roles {
		roleNames = append(roleNames, role.Name)
		for _, perm := range role.Permissions {
			snap.rolePerms[perm.ID] = struct{}{}
		}
	}
	snap.Rank = HighestLevel(roleNames)
	if user.IsGlobal {
		snap.Rank = LevelGlobalAdmin
	}

	for _, override := range user.Overrides {
		snap.overrides[override.PermissionID] = override.Granted
	}

	return snap
}

// Authorize decides whether the snapshot's user holds the permission key.
// Precedence is strict: global flag, then overrides (in both directions),
// then the union of role permissions. An override that revokes a key denies
// it even when a role grants it.
func (s *Snapshot) Authorize(key string) Decision {
	if s.Global {
		return Decision{Allowed: true, Reason: ReasonGlobal}
	}

	if granted, ok := s.overrides[key]; ok {
		if granted {
			return Decision{Allowed: true, Reason: ReasonOverrideGranted}
		}
		return Decision{Allowed: false, Reason: ReasonOverrideRevoked}
	}

	if _, ok := s.rolePerms[key]; ok {
		return Decision{Allowed: true, Reason: ReasonRoleGranted}
	}

	return Decision{Allowed: false, Reason: ReasonPermissionMissing}
}

// Allowed is a convenience wrapper over Authorize for callers that do not
// care about the reason.
func (s *Snapshot) Allowed(key string) bool {
	return s.Authorize(key).Allowed
}

// Keys returns the effective permission keys sorted lexicographically:
// role-derived keys plus granted overrides, minus revoked overrides. For
// global users it returns the whole catalog.
func (s *Snapshot) Keys() []string {
	if s.Global {
		defs := All()
		keys := make([]string, 0, len(defs))
		for _, def := range defs {
			keys = append(keys, def.Key)
		}
		return keys
	}

	effective := make(map[string]struct{}, len(s.rolePerms))
	for key := range s.rolePerms {
		effective[key] = struct{}{}
	}
	for key, granted := range s.overrides {
		if granted {
			effective[key] = struct{}{}
		} else {
			delete(effective, key)
		}
	}

	keys := make([]string, 0, len(effective))
	for key := range effective {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
