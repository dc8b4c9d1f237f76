package inventory

import (
	"fmt"

	"github.com/x1thexxx-lgtm/fleetinv/pkg/pure1"
)

// FetchError means an upstream fleet query returned a failure status. It
// aborts the whole run; no partial inventory is produced.
type FetchError struct {
	Resource string
	Status   int
	Message  string
	Context  string
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetching %s failed with status %d", e.Resource, e.Status)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// newFetchError builds a FetchError from a failed response, using the
// first upstream error entry when one is present.
func newFetchError(resource string, status int, errs []pure1.APIError) *FetchError {
	e := &FetchError{Resource: resource, Status: status}
	if len(errs) > 0 {
		e.Message = errs[0].Message
		e.Context = errs[0].Context
	}
	return e
}

// KeyedGroupError means a keyed-group rule referenced a variable missing
// from a host while strict mode is on.
type KeyedGroupError struct {
	Host string
	Key  string
}

func (e *KeyedGroupError) Error() string {
	return fmt.Sprintf("keyed group: host %s has no variable %q", e.Host, e.Key)
}
