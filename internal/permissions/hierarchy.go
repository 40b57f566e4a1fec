package permissions

import "strings"

// Level is the closed set of role hierarchy ranks. Higher values outrank
// lower ones; Unranked is the explicit default for unrecognised role names.
type Level int

const (
	LevelUnranked Level = iota
	LevelEmployee
	LevelManager
	LevelTenantAdmin
	LevelGlobalAdmin
)

// String returns the canonical name for the level.
func (l Level) String() string {
	switch l {
	case LevelEmployee:
		return "employee"
	case LevelManager:
		return "manager"
	case LevelTenantAdmin:
		return "admin"
	case LevelGlobalAdmin:
		return "super admin"
	default:
		return "unranked"
	}
}

// levelNames maps the recognised role-name spellings (compared
// case-insensitively) onto hierarchy levels. Names not listed here resolve to
// LevelUnranked rather than silently acquiring rank.
var levelNames = map[string]Level{
	"employee":     LevelEmployee,
	"staff":        LevelEmployee,
	"manager":      LevelManager,
	"admin":        LevelTenantAdmin,
	"tenant admin": LevelTenantAdmin,
	"super admin":  LevelGlobalAdmin,
	"superadmin":   LevelGlobalAdmin,
	"global admin": LevelGlobalAdmin,
}

// LevelFromRoleName derives the hierarchy level from a role name. The level
// is recomputed from the current name on every evaluation and is never stored
// alongside the role.
func LevelFromRoleName(name string) Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if level, ok := levelNames[name]; ok {
		return level
	}
	return LevelUnranked
}

// HighestLevel returns the maximum level across the provided role names.
func HighestLevel(roleNames []string) Level {
	highest := LevelUnranked
	for _, name := range roleNames {
		if level := LevelFromRoleName(name); level > highest {
			highest = level
		}
	}
	return highest
}
