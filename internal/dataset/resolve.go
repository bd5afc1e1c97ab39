// Package dataset turns raw usage tables into an immutable set of canonical records.
package dataset

import (
	"fmt"
	"strings"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// Ambiguity selects what happens when several columns match one role.
type Ambiguity int

const (
	// AmbiguityError fails resolution with an AmbiguousColumnError.
	AmbiguityError Ambiguity = iota
	// AmbiguityLast keeps the last matching column in source order.
	AmbiguityLast
)

// ParseAmbiguity parses "error" or "last".
func ParseAmbiguity(value string) (Ambiguity, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "error", "strict":
		return AmbiguityError, nil
	case "last", "last-match":
		return AmbiguityLast, nil
	default:
		return AmbiguityError, fmt.Errorf("invalid ambiguity mode %q (use error or last)", value)
	}
}

func (a Ambiguity) String() string {
	if a == AmbiguityLast {
		return "last"
	}
	return "error"
}

// ResolveOptions tunes column resolution.
type ResolveOptions struct {
	// Overrides pins a role to a named source column, bypassing the keyword heuristic.
	Overrides map[model.Role]string
	Ambiguity Ambiguity
}

// Keyword sets, checked in model.Roles order.
var roleKeywords = map[model.Role][]string{
	model.RoleDate:   {"date", "day"},
	model.RoleDevice: {"device", "appliance"},
	model.RolePower:  {"power", "watt"},
	model.RoleHours:  {"hour", "usage"},
}

// MatchRole returns the first role whose keywords occur in the lowercased column name.
func MatchRole(column string) (model.Role, bool) {
	name := strings.ToLower(column)
	for _, role := range model.Roles {
		for _, kw := range roleKeywords[role] {
			if strings.Contains(name, kw) {
				return role, true
			}
		}
	}
	return "", false
}

// ResolveColumns maps source column names onto the four canonical roles.
func ResolveColumns(columns []string, opts ResolveOptions) (model.ColumnMap, error) {
	mapping := model.ColumnMap{}
	claimed := map[string]bool{}
	var unknown []string
	for _, role := range model.Roles {
		name := strings.TrimSpace(opts.Overrides[role])
		if name == "" {
			continue
		}
		col, ok := findColumn(columns, name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		mapping[role] = col
		claimed[col] = true
	}

	matches := map[model.Role][]string{}
	for _, col := range columns {
		if claimed[col] {
			continue
		}
		role, ok := MatchRole(col)
		if !ok {
			continue
		}
		if _, pinned := mapping[role]; pinned {
			continue
		}
		matches[role] = append(matches[role], col)
	}

	for _, role := range model.Roles {
		cols := matches[role]
		if len(cols) == 0 {
			continue
		}
		if len(cols) > 1 && opts.Ambiguity == AmbiguityError {
			return nil, &AmbiguousColumnError{Role: role, Columns: cols}
		}
		mapping[role] = cols[len(cols)-1]
	}

	var missing []model.Role
	for _, role := range model.Roles {
		if _, ok := mapping[role]; !ok {
			missing = append(missing, role)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 {
		return nil, &SchemaDetectionError{Missing: missing, Unknown: unknown}
	}
	return mapping, nil
}

func findColumn(columns []string, name string) (string, bool) {
	for _, col := range columns {
		if col == name {
			return col, true
		}
	}
	for _, col := range columns {
		if strings.EqualFold(strings.TrimSpace(col), name) {
			return col, true
		}
	}
	return "", false
}
