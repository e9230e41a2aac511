package survey

import (
	"time"

	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
)

// Clock supplies timestamps for legacy rows. Production code uses the
// system clock; tests inject a frozen one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Service binds the two operations to a row store and a table definition.
// It holds no state of its own between calls.
type Service struct {
	store sheet.Store
	def   *schema.Definition
	clock Clock
}

// NewService creates a Service over the given store and table definition.
// A nil clock selects the system clock.
func NewService(store sheet.Store, def *schema.Definition, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{store: store, def: def, clock: clock}
}
