package github

import (
	"errors"
	"fmt"
)

// RequestError describes a single failed API call. Status is zero when the
// request never produced a response.
type RequestError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (%d): %s", e.Op, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func asRequestError(err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return nil
}
