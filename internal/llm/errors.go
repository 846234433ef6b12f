package llm

import (
	"errors"
	"fmt"
)

// ErrQuotaExhausted is returned when every configured provider, key and
// model combination has been tried and failed within one generation
// request. It is the only terminal error kind the orchestrator surfaces.
var ErrQuotaExhausted = errors.New("all providers, keys and models exhausted")

// StatusError is a non-2xx HTTP response from a provider. The orchestrator
// classifies it: 429 and 503 mean the key is out of quota for now, anything
// else is a structural problem with the model or request.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.Code, e.Body)
}

// RateLimited reports whether the status indicates quota exhaustion or
// overload rather than a malformed request.
func (e *StatusError) RateLimited() bool {
	return e.Code == 429 || e.Code == 503
}
