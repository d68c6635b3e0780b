package llm

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse   = errors.New("empty response")
	ErrSchemaViolation = errors.New("response does not match schema")
)

// ProviderError wraps every failure of the generation call. Callers treat it as opaque:
// transport errors, provider errors and schema violations all look the same from outside.
type ProviderError struct {
	Flow   string
	Engine string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s via %s: %v", e.Flow, e.Engine, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
