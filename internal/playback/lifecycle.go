package playback

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// Component is something that must be cleaned up on shutdown.
type Component interface {
	// Name is used for logging.
	Name() string

	// Shutdown releases the component's resources.
	Shutdown(ctx context.Context) error
}

// Lifecycle shuts registered components down in reverse registration order,
// either on SIGINT/SIGTERM or when Shutdown is called.
type Lifecycle struct {
	mu         sync.Mutex
	components []Component
	shutdownCh chan struct{}
	done       chan struct{}
	signals    chan os.Signal
	isShutdown bool
	timeout    time.Duration
	err        error
}

// NewLifecycle returns a lifecycle with a five second shutdown budget.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
		timeout:    5 * time.Second,
	}
}

// Register adds a component. Components registered after shutdown started
// are shut down immediately.
func (lm *Lifecycle) Register(c Component) {
	lm.mu.Lock()
	if lm.isShutdown {
		lm.mu.Unlock()
		log.Warn("Registered component during shutdown", "component", c.Name())
		ctx, cancel := context.WithTimeout(context.Background(), lm.timeout)
		defer cancel()
		if err := c.Shutdown(ctx); err != nil {
			log.Warn("Component shutdown failed", "name", c.Name(), "error", err)
		}
		return
	}
	lm.components = append(lm.components, c)
	lm.mu.Unlock()
	log.Debug("Registered lifecycle component", "name", c.Name())
}

// Start shuts down on SIGINT or SIGTERM.
func (lm *Lifecycle) Start() {
	lm.signals = make(chan os.Signal, 1)
	signal.Notify(lm.signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(lm.signals)
		select {
		case sig := <-lm.signals:
			log.Info("Received shutdown signal", "signal", sig)
			_ = lm.Shutdown()
		case <-lm.shutdownCh:
		}
	}()
}

// ShuttingDown is closed when shutdown begins.
func (lm *Lifecycle) ShuttingDown() <-chan struct{} {
	return lm.shutdownCh
}

// Shutdown runs every component's Shutdown in reverse order. Only the first
// call does any work; later calls wait for it and return its result.
func (lm *Lifecycle) Shutdown() error {
	lm.mu.Lock()
	if lm.isShutdown {
		lm.mu.Unlock()
		<-lm.done
		return lm.err
	}
	lm.isShutdown = true
	components := lm.components
	lm.mu.Unlock()

	log.Debug("Starting graceful shutdown", "components", len(components))
	close(lm.shutdownCh)

	ctx, cancel := context.WithTimeout(context.Background(), lm.timeout)
	defer cancel()

	var failed int
	for i := len(components) - 1; i >= 0; i-- {
		c := components[i]
		log.Debug("Shutting down component", "name", c.Name())
		if err := c.Shutdown(ctx); err != nil {
			log.Warn("Component shutdown failed", "name", c.Name(), "error", err)
			failed++
		}
	}

	if failed > 0 {
		lm.err = fmt.Errorf("shutdown completed with %d errors", failed)
	}
	close(lm.done)
	return lm.err
}

// Wait blocks until shutdown is complete.
func (lm *Lifecycle) Wait() {
	<-lm.done
}

// ControllerComponent closes a controller on shutdown.
type ControllerComponent struct {
	c *Controller
}

// NewControllerComponent wraps c for a Lifecycle.
func NewControllerComponent(c *Controller) *ControllerComponent {
	return &ControllerComponent{c: c}
}

// Name implements Component.
func (cc *ControllerComponent) Name() string { return "playback controller" }

// Shutdown implements Component.
func (cc *ControllerComponent) Shutdown(context.Context) error {
	return cc.c.Close()
}

// FuncComponent adapts a function to Component.
type FuncComponent struct {
	name string
	fn   func(ctx context.Context) error
}

// NewFuncComponent returns a component that calls fn on shutdown.
func NewFuncComponent(name string, fn func(ctx context.Context) error) *FuncComponent {
	return &FuncComponent{name: name, fn: fn}
}

// Name implements Component.
func (f *FuncComponent) Name() string { return f.name }

// Shutdown implements Component.
func (f *FuncComponent) Shutdown(ctx context.Context) error { return f.fn(ctx) }
