// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about action dispatch, uploads, style transfer runs,
// cache operations, and HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import cycles
// and keeps the libraries free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetUploadHooks(&myUploadHooks{})
//	    observability.SetStylizeHooks(&myStylizeHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Upload().OnAttempt(ctx, attempt, replica)
//	// ... send request ...
//	observability.Upload().OnAttemptFailed(ctx, attempt, replica, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Action Hooks
// =============================================================================

// ActionHooks receives events from the action dispatcher.
type ActionHooks interface {
	// OnPerform records a performed action. trigger is "name" or "key".
	OnPerform(ctx context.Context, action, trigger string, duration time.Duration, captured bool, errMessage string)
}

// =============================================================================
// Upload Hooks
// =============================================================================

// UploadHooks receives events from the style-transfer upload client.
type UploadHooks interface {
	// OnAttempt records the start of an attempt (1-based) against replica.
	OnAttempt(ctx context.Context, attempt int, replica string)

	// OnAttemptFailed records a failed attempt.
	OnAttemptFailed(ctx context.Context, attempt int, replica string, err error)

	// OnUploadComplete records the end of an upload call.
	OnUploadComplete(ctx context.Context, attempts int, duration time.Duration, err error)
}

// =============================================================================
// Stylize Hooks
// =============================================================================

// StylizeHooks receives events from the style-transfer orchestrator.
type StylizeHooks interface {
	// OnTransition records a state machine transition.
	OnTransition(ctx context.Context, from, to string)

	// OnComplete records the end of a run with its terminal state.
	OnComplete(ctx context.Context, state string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopActionHooks is a no-op implementation of ActionHooks.
type NoopActionHooks struct{}

func (NoopActionHooks) OnPerform(context.Context, string, string, time.Duration, bool, string) {}

// NoopUploadHooks is a no-op implementation of UploadHooks.
type NoopUploadHooks struct{}

func (NoopUploadHooks) OnAttempt(context.Context, int, string)                       {}
func (NoopUploadHooks) OnAttemptFailed(context.Context, int, string, error)          {}
func (NoopUploadHooks) OnUploadComplete(context.Context, int, time.Duration, error) {}

// NoopStylizeHooks is a no-op implementation of StylizeHooks.
type NoopStylizeHooks struct{}

func (NoopStylizeHooks) OnTransition(context.Context, string, string)                {}
func (NoopStylizeHooks) OnComplete(context.Context, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	actionHooks  ActionHooks  = NoopActionHooks{}
	uploadHooks  UploadHooks  = NoopUploadHooks{}
	stylizeHooks StylizeHooks = NoopStylizeHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetActionHooks registers custom action hooks.
// This should be called once at application startup before any dispatch.
func SetActionHooks(h ActionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		actionHooks = h
	}
}

// SetUploadHooks registers custom upload hooks.
// This should be called once at application startup before any uploads.
func SetUploadHooks(h UploadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		uploadHooks = h
	}
}

// SetStylizeHooks registers custom style-transfer hooks.
func SetStylizeHooks(h StylizeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		stylizeHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Action returns the registered action hooks.
func Action() ActionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return actionHooks
}

// Upload returns the registered upload hooks.
func Upload() UploadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return uploadHooks
}

// Stylize returns the registered style-transfer hooks.
func Stylize() StylizeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return stylizeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	actionHooks = NoopActionHooks{}
	uploadHooks = NoopUploadHooks{}
	stylizeHooks = NoopStylizeHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
