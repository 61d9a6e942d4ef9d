package transform

import "fmt"

// InvalidInputError reports a precondition violation (nil or zero-area
// source image). These are programming errors on the caller side, so we
// fail fast instead of silently producing an empty render.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// OutOfRangeError reports an adjustment parameter outside its declared
// domain. UI-driven callers should Clamp instead; this is for out-of-band
// callers that bypass the slider bounds.
type OutOfRangeError struct {
	Param string
	Value float64
	Min   float64
	Max   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s=%v out of range [%v, %v]", e.Param, e.Value, e.Min, e.Max)
}

// DecodeError reports a corrupt or unsupported encoded image. A render that
// hits one never returns partial output.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
