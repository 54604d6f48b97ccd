package async

import "errors"

var (
	ErrTimeout        = errors.New("async: operation timed out waiting for future completion")
	ErrNoFutures      = errors.New("async: WaitAny called with empty futures slice")
	ErrAlreadySettled = errors.New("async: promise already settled")
	ErrPanicked       = errors.New("async: function panicked")
)
