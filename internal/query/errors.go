// Package query turns persisted filter criteria into composable predicates
// over DMARC report records.
//
// Criteria of the same variant within one collection are ORed, the
// resulting groups are ANDed across variants. Filter-set-level and
// view-level collections take part in that AND stage on equal footing.
package query

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid or missing piece of filter
// configuration. It is surfaced to the caller and never defaulted away.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid filter configuration: " + e.Reason
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ErrNoDateRange is returned when line data is requested for a view that
// has no view-level date-range criterion.
var ErrNoDateRange = &ConfigurationError{Reason: "no date range configured"}
