package dataset

import (
	"fmt"
	"strings"

	"github.com/geethikavulli/Electricity-Consumption-Calculation-Dashboard/internal/model"
)

// SchemaDetectionError reports required roles that no source column matched.
type SchemaDetectionError struct {
	Missing []model.Role
	// Unknown lists override column names that are not in the source.
	Unknown []string
}

func (e *SchemaDetectionError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		names := make([]string, len(e.Missing))
		for i, r := range e.Missing {
			names[i] = string(r)
		}
		parts = append(parts, "could not detect columns: "+strings.Join(names, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "configured columns not found: "+strings.Join(e.Unknown, ", "))
	}
	return strings.Join(parts, "; ")
}

// AmbiguousColumnError reports a role matched by more than one source column.
type AmbiguousColumnError struct {
	Role    model.Role
	Columns []string
}

func (e *AmbiguousColumnError) Error() string {
	return fmt.Sprintf("ambiguous %s column: %s all match (set an explicit column or use last-match mode)",
		e.Role, strings.Join(quoteAll(e.Columns), ", "))
}

// InvalidMetricInputError reports a non-numeric value in a numeric field.
type InvalidMetricInputError struct {
	Field  model.Role
	Column string
	// Row is 1-based and does not count the header.
	Row   int
	Value string
}

func (e *InvalidMetricInputError) Error() string {
	return fmt.Sprintf("invalid %s value %q in column %q at row %d", e.Field, e.Value, e.Column, e.Row)
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
