package llm

import "fmt"

// AuthError means a backend cannot be used because its credential is missing
// or rejected. Work targeting that backend is skipped; other backends
// proceed.
type AuthError struct {
	Model  string
	EnvVar string
}

func (e *AuthError) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("model %s not initialized: %s not set", e.Model, e.EnvVar)
	}
	return fmt.Sprintf("model %s not initialized, check API keys", e.Model)
}

// ConnectionError means the backend endpoint could not be reached or the
// call timed out. Connection errors are retryable.
type ConnectionError struct {
	Model string
	Err   error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("model %s unreachable: %v", e.Model, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// ProviderError means the backend responded but the response was unusable:
// a non-2xx status or a malformed/empty completion. 5xx and 429 statuses are
// retryable; other statuses are permanent. Permanent marks failures that
// happened before the request left the process (marshalling, request
// construction) and can never succeed on retry.
type ProviderError struct {
	Model      string
	StatusCode int
	Reason     string
	Permanent  bool
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("model %s provider error", e.Model)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error { return e.Err }

// retryable reports whether another attempt could plausibly succeed.
func retryable(err error) bool {
	switch e := err.(type) {
	case *ConnectionError:
		return true
	case *ProviderError:
		if e.Permanent {
			return false
		}
		return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
	}
	return false
}
