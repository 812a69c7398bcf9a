package gatt

import "fmt"

// ConfigurationError reports a malformed service definition or a mismatch
// between the report map and the report-reference bindings. It is detected
// before or during registration and is fatal to startup; there is nothing to
// retry.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid service configuration: %s", e.Reason)
}
