package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Permission is a single feature capability inside a company.
type Permission uint8

const (
	PermFields Permission = 1 << iota
	PermInventory
	PermTasks
	PermReports
	PermWeather
	PermUsers
)

var permissionNames = []struct {
	perm Permission
	name string
}{
	{PermFields, "fields"},
	{PermInventory, "inventory"},
	{PermTasks, "tasks"},
	{PermReports, "reports"},
	{PermWeather, "weather"},
	{PermUsers, "users"},
}

// AllPermissions is the full capability set.
const AllPermissions = PermFields | PermInventory | PermTasks | PermReports | PermWeather | PermUsers

func (p Permission) String() string {
	for _, pn := range permissionNames {
		if pn.perm == p {
			return pn.name
		}
	}
	return "permission(" + strconv.Itoa(int(p)) + ")"
}

// ParsePermission resolves a capability by its JSON name.
func ParsePermission(name string) (Permission, bool) {
	for _, pn := range permissionNames {
		if pn.name == name {
			return pn.perm, true
		}
	}
	return 0, false
}

// Permissions is a bitset of Permission values. It is stored as an integer
// column and serialized as an object of booleans keyed by capability name.
type Permissions uint8

// NewPermissions builds a set from individual capabilities.
func NewPermissions(perms ...Permission) Permissions {
	var set Permissions
	for _, p := range perms {
		set |= Permissions(p)
	}
	return set
}

// Has reports whether every given capability is in the set.
func (s Permissions) Has(perms ...Permission) bool {
	for _, p := range perms {
		if uint8(s)&uint8(p) == 0 {
			return false
		}
	}
	return true
}

// With returns the set extended by perms.
func (s Permissions) With(perms ...Permission) Permissions {
	return s | NewPermissions(perms...)
}

// Without returns the set with perms removed.
func (s Permissions) Without(perms ...Permission) Permissions {
	return s &^ NewPermissions(perms...)
}

// Names lists the granted capability names in declaration order.
func (s Permissions) Names() []string {
	names := make([]string, 0, len(permissionNames))
	for _, pn := range permissionNames {
		if s.Has(pn.perm) {
			names = append(names, pn.name)
		}
	}
	return names
}

func (s Permissions) MarshalJSON() ([]byte, error) {
	m := make(map[string]bool, len(permissionNames))
	for _, pn := range permissionNames {
		m[pn.name] = s.Has(pn.perm)
	}
	return json.Marshal(m)
}

func (s *Permissions) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("permissions must be an object of booleans: %w", err)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var set Permissions
	for _, k := range keys {
		perm, ok := ParsePermission(k)
		if !ok {
			return fmt.Errorf("unknown permission %q", k)
		}
		if m[k] {
			set = set.With(perm)
		}
	}
	*s = set
	return nil
}

// Value implements driver.Valuer.
func (s Permissions) Value() (driver.Value, error) {
	return int64(s), nil
}

// Scan implements sql.Scanner.
func (s *Permissions) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = 0
	case int64:
		*s = Permissions(v)
	case int32:
		*s = Permissions(v)
	case int:
		*s = Permissions(v)
	case uint8:
		*s = Permissions(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan permissions: %w", err)
		}
		*s = Permissions(n)
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan permissions: %w", err)
		}
		*s = Permissions(n)
	default:
		return fmt.Errorf("scan permissions: unsupported type %T", value)
	}
	*s &= Permissions(AllPermissions)
	return nil
}
