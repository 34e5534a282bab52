package citation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/citeworks/citeforge/internal/models"
)

// ValidationError aggregates every problem found in one citation
// payload. Validation never stops at the first problem: all missing
// required fields, all fields outside the kind's schema, and every
// per-field format violation are reported together so the caller fixes
// everything in one round trip.
type ValidationError struct {
	// Kind the payload was checked against (the new kind on a kind
	// change).
	Kind models.Kind
	// From is the prior kind when an update changes it, empty otherwise.
	From models.Kind
	// Missing lists required fields absent from the merged data.
	Missing []string
	// Invalid lists supplied fields the kind does not accept.
	Invalid []string
	// KindChange lists fields a kind change still requires.
	KindChange []string
	// Fields maps each supplied field to its format problem.
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing required %s fields: %s", e.Kind, strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid fields for %s: %s", e.Kind, strings.Join(e.Invalid, ", ")))
	}
	if len(e.KindChange) > 0 {
		parts = append(parts, fmt.Sprintf("changing type from %s to %s requires: %s", e.From, e.Kind, strings.Join(e.KindChange, ", ")))
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for f := range e.Fields {
			names = append(names, f)
		}
		sort.Strings(names)
		for _, f := range names {
			parts = append(parts, f+" "+e.Fields[f])
		}
	}
	if len(parts) == 0 {
		return "citation validation failed"
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) addField(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, seen := e.Fields[field]; !seen {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) ok() bool {
	return len(e.Missing) == 0 && len(e.Invalid) == 0 && len(e.KindChange) == 0 && len(e.Fields) == 0
}
