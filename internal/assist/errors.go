package assist

import (
	"errors"
	"fmt"
)

var (
	ErrMissingCredential  = errors.New("set GROQ_API_KEY in the secrets file or as an environment variable")
	ErrUnexpectedResponse = errors.New("unexpected response from groq api")
)

// APIError is returned when the completion endpoint answers with status >= 400.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e == nil {
		return "groq api error"
	}
	return fmt.Sprintf("groq api error %d: %s", e.StatusCode, e.Body)
}
