package permissions

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Definition describes a catalog entry. The Key has the form
// "<module>:<action>", lower-case, and is globally unique; the catalog is
// shared across tenants.
type Definition struct {
	Key         string
	Module      string
	Action      string
	Description string
}

type catalogRegistry struct {
	mu          sync.RWMutex
	definitions map[string]*Definition
}

var globalCatalog = &catalogRegistry{
	definitions: make(map[string]*Definition),
}

var (
	errNilDefinition = errors.New("permission: nil definition")
	errEmptyKey      = errors.New("permission: key is required")
	errMalformedKey  = errors.New("permission: key must be <module>:<action>")
	errDuplicateKey  = errors.New("permission: already registered")
)

// ParseKey splits a permission key into module and action parts, enforcing the
// lower-case "<module>:<action>" shape.
func ParseKey(key string) (module, action string, err error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", errEmptyKey
	}

	parts := strings.Split(key, ":")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", errMalformedKey, key)
	}
	if key != strings.ToLower(key) {
		return "", "", fmt.Errorf("%w: %q", errMalformedKey, key)
	}

	return parts[0], parts[1], nil
}

// Register adds a catalog entry. Module and Action are derived from the key.
func Register(def *Definition) error {
	if def == nil {
		return errNilDefinition
	}

	key := strings.TrimSpace(def.Key)
	module, action, err := ParseKey(key)
	if err != nil {
		return err
	}

	entry := &Definition{
		Key:         key,
		Module:      module,
		Action:      action,
		Description: strings.TrimSpace(def.Description),
	}

	globalCatalog.mu.Lock()
	defer globalCatalog.mu.Unlock()

	if _, exists := globalCatalog.definitions[key]; exists {
		return fmt.Errorf("%w: %s", errDuplicateKey, key)
	}

	globalCatalog.definitions[key] = entry
	return nil
}

// Get returns a copy of the catalog entry when registered.
func Get(key string) (*Definition, bool) {
	globalCatalog.mu.RLock()
	defer globalCatalog.mu.RUnlock()

	def, ok := globalCatalog.definitions[key]
	if !ok {
		return nil, false
	}
	cp := *def
	return &cp, true
}

// Known reports whether the key exists in the catalog.
func Known(key string) bool {
	globalCatalog.mu.RLock()
	defer globalCatalog.mu.RUnlock()

	_, ok := globalCatalog.definitions[key]
	return ok
}

// All returns every registered definition sorted by key.
func All() []*Definition {
	globalCatalog.mu.RLock()
	defer globalCatalog.mu.RUnlock()

	out := make([]*Definition, 0, len(globalCatalog.definitions))
	for _, def := range globalCatalog.definitions {
		cp := *def
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ByModule gathers definitions registered under the specified module.
func ByModule(module string) []*Definition {
	globalCatalog.mu.RLock()
	defer globalCatalog.mu.RUnlock()

	module = strings.TrimSpace(module)
	var defs []*Definition
	for _, def := range globalCatalog.definitions {
		if def.Module == module {
			cp := *def
			defs = append(defs, &cp)
		}
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Key < defs[j].Key })
	return defs
}

// reset clears registry entries. Intended for testing only.
func reset() {
	globalCatalog.mu.Lock()
	defer globalCatalog.mu.Unlock()
	globalCatalog.definitions = make(map[string]*Definition)
}
