package cpu

import "errors"

var (
	ErrNoSceneData   = errors.New("cpu tracer: no scene data uploaded")
	ErrInvalidOption = errors.New("cpu tracer: invalid update option")
)
