package query

import "fmt"

// ConfigurationError reports a caller mistake in a query or aggregation definition, such as a
// malformed field path or a join key that no record resolves.
type ConfigurationError struct {
	Field  string
	Path   FieldPath
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Path, e.Reason)
}

func newConfigurationError(field string, path FieldPath, reason string) error {
	return &ConfigurationError{Field: field, Path: path, Reason: reason}
}
