package event

import "time"

// BusOption configures an event Bus.
type BusOption func(*busConfig)

type busConfig struct {
	// handlerTimeout bounds each handler's context; zero disables it.
	handlerTimeout time.Duration
	panicHandler   PanicHandler
}

func defaultBusConfig() busConfig {
	return busConfig{
		panicHandler: DefaultPanicHandler,
	}
}

// WithHandlerTimeout sets a per-handler context deadline.
func WithHandlerTimeout(timeout time.Duration) BusOption {
	return func(c *busConfig) {
		c.handlerTimeout = timeout
	}
}

// WithBusPanicHandler sets the panic handler for the bus.
func WithBusPanicHandler(h PanicHandler) BusOption {
	return func(c *busConfig) {
		if h != nil {
			c.panicHandler = h
		}
	}
}
