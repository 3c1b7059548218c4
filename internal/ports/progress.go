package ports

import (
	"github.com/hostwise/hostwise/internal/model"
)

// ApplyProgress receives streaming progress while a configuration set is
// applied. The engine invokes it synchronously from a single goroutine.
// Implementations that panic do not abort processing; the engine recovers and
// logs the panic.
type ApplyProgress interface {
	// Progress delivers one state-change event.
	Progress(event model.ChangeEvent)

	// Result hands over the aggregated set result before processing begins.
	// The engine mutates the result in place, so holders observe per-unit
	// outcomes as they land.
	Result(result *model.ApplySetResult)
}
