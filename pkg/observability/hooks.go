// Package observability provides hooks for instrumenting runs.
//
// Libraries emit events through the registered hooks; main may register
// custom implementations at startup. The defaults are no-ops, so nothing is
// recorded unless someone opts in.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnResolveStart(ctx, len(monitors))
//	// ... solve ...
//	observability.Pipeline().OnResolveComplete(ctx, len(monitors), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a single run.
type PipelineHooks interface {
	// Layout events
	OnResolveStart(ctx context.Context, monitors int)
	OnResolveComplete(ctx context.Context, monitors int, duration time.Duration, err error)

	// Export events
	OnExportStart(ctx context.Context, monitors int, resize bool)
	OnExportComplete(ctx context.Context, monitors int, duration time.Duration, err error)

	// Backend events
	OnApply(ctx context.Context, backend string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the cache gate.
type CacheHooks interface {
	// OnCacheHit records a run that reused existing artifacts.
	OnCacheHit(ctx context.Context, key string)

	// OnCacheMiss records a run that has to regenerate.
	OnCacheMiss(ctx context.Context, key string, forced bool)

	// OnInvalidate records the cleanup of a work directory.
	OnInvalidate(ctx context.Context, dir string)
}

// =============================================================================
// Daemon Hooks
// =============================================================================

// DaemonHooks receives events from the daemon loop.
type DaemonHooks interface {
	// OnTrigger records a resplit request and where it came from.
	OnTrigger(ctx context.Context, source string)

	// OnRun records a finished daemon-triggered run.
	OnRun(ctx context.Context, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnResolveStart(context.Context, int)                          {}
func (NoopPipelineHooks) OnResolveComplete(context.Context, int, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, int, bool)                     {}
func (NoopPipelineHooks) OnExportComplete(context.Context, int, time.Duration, error)  {}
func (NoopPipelineHooks) OnApply(context.Context, string, time.Duration, error)        {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)        {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string, bool) {}
func (NoopCacheHooks) OnInvalidate(context.Context, string)      {}

// NoopDaemonHooks is a no-op implementation of DaemonHooks.
type NoopDaemonHooks struct{}

func (NoopDaemonHooks) OnTrigger(context.Context, string)            {}
func (NoopDaemonHooks) OnRun(context.Context, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	daemonHooks   DaemonHooks   = NoopDaemonHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any run.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetDaemonHooks registers custom daemon hooks.
func SetDaemonHooks(h DaemonHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		daemonHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Daemon returns the registered daemon hooks.
func Daemon() DaemonHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return daemonHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	daemonHooks = NoopDaemonHooks{}
}
