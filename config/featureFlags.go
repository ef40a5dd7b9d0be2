package config

import (
	"os"
	"strings"
)

// StrictReferentialChecks makes enrollment and payment recording verify
// that referenced plan/branch/semester/session/student rows actually exist.
// The default (off) accepts unknown references and lets the reporting layer
// null-coalesce missing names, matching the behavior the institutions'
// existing data depends on.
//
// Set via env:
// - STRICT_REFERENTIAL_CHECKS=true
func StrictReferentialChecks() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_REFERENTIAL_CHECKS")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}
