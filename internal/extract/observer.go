package extract

import "log/slog"

// Event describes one strategy attempt during extraction. Observers receive
// every attempt in order, which keeps extraction behavior testable without
// capturing log output.
type Event struct {
	Field    string
	Strategy string
	Hit      bool
	Value    string
}

// Observer receives extraction events. A nil Observer is valid and ignored.
type Observer func(Event)

// SlogObserver adapts an Observer onto a structured logger. Misses are logged
// at debug, fallback hits at info so OCR-quality issues surface in operation.
func SlogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ev Event) {
		if ev.Hit {
			logger.Debug("field extracted", "field", ev.Field, "strategy", ev.Strategy)
			return
		}
		logger.Debug("field strategy missed", "field", ev.Field, "strategy", ev.Strategy)
	}
}

// CollectObserver appends events to dst for inspection in tests and audits.
func CollectObserver(dst *[]Event) Observer {
	return func(ev Event) {
		*dst = append(*dst, ev)
	}
}
