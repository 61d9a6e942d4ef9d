package models

import (
	"github.com/scanbill/go-workers/internal/types"
)

// ProcessingError wraps a job failure with the ack/nack decision: transient
// failures requeue, everything else is dropped to the dead letter path.
type ProcessingError struct {
	Err     error
	Requeue bool
}

func (p ProcessingError) Error() string {
	return p.Err.Error()
}

// RenderMessage is the envelope render jobs arrive in.
type RenderMessage struct {
	Pattern string          `json:"pattern"`
	Data    types.RenderJob `json:"data"`
}
