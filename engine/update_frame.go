package engine

import (
	"time"

	"github.com/plus3/blockfall/input"
)

// UpdateFrame is what every system sees during one pass of the pipeline.
type UpdateFrame struct {
	DeltaTime time.Duration
	Keys      input.Keys
	Commands  *Commands
}

func newUpdateFrame(dt time.Duration, keys input.Keys, commands *Commands) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Keys:      keys,
		Commands:  commands,
	}
}
