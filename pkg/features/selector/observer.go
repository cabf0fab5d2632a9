package selector

import "time"

// Outcome classifies how a selection request was answered.
type Outcome int

const (
	// CacheHit means the raw value was the same as last time and the
	// selector did not run.
	CacheHit Outcome = iota

	// Suppressed means the selector ran but the equality function reported
	// the result equal to the previous one, which was kept.
	Suppressed

	// Changed means a new derived value was produced.
	Changed
)

// String returns the outcome name used in metrics and spans.
func (o Outcome) String() string {
	switch o {
	case CacheHit:
		return "cache_hit"
	case Suppressed:
		return "suppressed"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// Observer receives instrumentation events from stores and cells.
// Implementations must be safe for concurrent use and must not call back
// into the store.
type Observer interface {
	// OnPublish is called after a cell notified its listeners.
	OnPublish(store string, listeners int, elapsed time.Duration)

	// OnSelect is called for every selection request of a binding.
	OnSelect(store string, outcome Outcome)

	// OnMissingProvider is called the first time a consuming component
	// falls back to the store default.
	OnMissingProvider(store, op string)
}

type nopObserver struct{}

func (nopObserver) OnPublish(string, int, time.Duration) {}
func (nopObserver) OnSelect(string, Outcome)             {}
func (nopObserver) OnMissingProvider(string, string)     {}

// Observers fans events out to several observers in order.
func Observers(obs ...Observer) Observer {
	var list multiObserver
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multiObserver []Observer

func (m multiObserver) OnPublish(store string, listeners int, elapsed time.Duration) {
	for _, o := range m {
		o.OnPublish(store, listeners, elapsed)
	}
}

func (m multiObserver) OnSelect(store string, outcome Outcome) {
	for _, o := range m {
		o.OnSelect(store, outcome)
	}
}

func (m multiObserver) OnMissingProvider(store, op string) {
	for _, o := range m {
		o.OnMissingProvider(store, op)
	}
}
