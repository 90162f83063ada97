package signing

import (
	"errors"
	"fmt"
)

// Stage names the step of the sign workflow that failed.
type Stage int

const (
	StageHash Stage = iota + 1
	StageSign
)

func (s Stage) String() string {
	switch s {
	case StageHash:
		return "hash"
	case StageSign:
		return "sign"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// SignError wraps a failure in one stage of Sign.
type SignError struct {
	Stage Stage
	Err   error
}

func (e *SignError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Stage, e.Err)
}

func (e *SignError) Unwrap() error { return e.Err }

// ErrInvalidSignature is returned for malformed signatures and recovery ids.
var ErrInvalidSignature = errors.New("invalid signature")
