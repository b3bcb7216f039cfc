package archon

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when a create call succeeds but carries no task id.
var ErrMissingID = errors.New("response has no task id")

// RemoteServiceError reports a failed call to the task service: a network
// error, a timeout, a non-2xx response or an unusable body.
type RemoteServiceError struct {
	Op         string
	URL        string
	StatusCode int    // zero when no response was received
	Body       string // truncated response body for non-2xx responses
	Err        error
}

func (e *RemoteServiceError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s: %s returned status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.URL, e.Err)
	case e.Body != "":
		return fmt.Sprintf("%s: %s returned status %d: %s", e.Op, e.URL, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("%s: %s returned status %d", e.Op, e.URL, e.StatusCode)
	}
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}
