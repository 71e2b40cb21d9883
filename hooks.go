package heap

import (
	"context"
	"net/http"
	"time"
)

// HTTPHook allows customizing HTTP request/response handling in the live
// transport. Hooks run in order before the request and in reverse order after
// the response.
//
// Use hooks for:
//   - Adding custom headers to all requests
//   - Logging request/response details
//   - Collecting custom metrics
//
// Example:
//
//	client, _ := heap.New(appID,
//	    heap.WithTransportOptions(heap.WithRequestHooks(
//	        heap.LoggingHook(heap.NewSlogAdapter(nil)),
//	    )),
//	)
type HTTPHook interface {
	// BeforeRequest is called before sending the HTTP request.
	// It can modify the request (e.g., add headers) and return an error to abort.
	BeforeRequest(ctx context.Context, req *http.Request) error

	// AfterResponse is called after receiving the HTTP response.
	// It receives the response, duration, and any error from the request.
	AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error)
}

// HTTPHookFunc is a function adapter for simple hooks.
type HTTPHookFunc struct {
	Before func(ctx context.Context, req *http.Request) error
	After  func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error)
}

// BeforeRequest implements HTTPHook.
func (f HTTPHookFunc) BeforeRequest(ctx context.Context, req *http.Request) error {
	if f.Before != nil {
		return f.Before(ctx, req)
	}
	return nil
}

// AfterResponse implements HTTPHook.
func (f HTTPHookFunc) AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
	if f.After != nil {
		f.After(ctx, req, resp, duration, err)
	}
}

// hookChain combines multiple hooks into a single hook.
type hookChain struct {
	hooks []HTTPHook
}

// BeforeRequest calls all hooks in order.
func (c *hookChain) BeforeRequest(ctx context.Context, req *http.Request) error {
	for _, hook := range c.hooks {
		if err := hook.BeforeRequest(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// AfterResponse calls all hooks in reverse order (like a defer stack).
func (c *hookChain) AfterResponse(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
	for i := len(c.hooks) - 1; i >= 0; i-- {
		c.hooks[i].AfterResponse(ctx, req, resp, duration, err)
	}
}

// combineHooks returns nil for no hooks and the hook itself for one.
func combineHooks(hooks []HTTPHook) HTTPHook {
	if len(hooks) == 0 {
		return nil
	}
	if len(hooks) == 1 {
		return hooks[0]
	}
	return &hookChain{hooks: append([]HTTPHook(nil), hooks...)}
}

// Predefined hooks

// HeaderHook creates a hook that sets a header on every request.
func HeaderHook(key, value string) HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			req.Header.Set(key, value)
			return nil
		},
	}
}

// DynamicHeaderHook creates a hook that adds headers computed per request.
//
//	heap.DynamicHeaderHook(func(ctx context.Context) map[string]string {
//	    return map[string]string{"X-Request-ID": requestIDFrom(ctx)}
//	})
func DynamicHeaderHook(fn func(ctx context.Context) map[string]string) HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			for k, v := range fn(ctx) {
				req.Header.Set(k, v)
			}
			return nil
		},
	}
}

// LoggingHook creates a hook that logs request and response information at
// debug level.
func LoggingHook(logger StructuredLogger) HTTPHook {
	return HTTPHookFunc{
		Before: func(ctx context.Context, req *http.Request) error {
			logger.Debug("heap: sending request", "method", req.Method, "path", req.URL.Path)
			return nil
		},
		After: func(ctx context.Context, req *http.Request, resp *http.Response, duration time.Duration, err error) {
			if err != nil {
				logger.Debug("heap: request failed", "method", req.Method, "path", req.URL.Path,
					"duration", duration, "error", err)
			} else if resp != nil {
				logger.Debug("heap: request completed", "method", req.Method, "path", req.URL.Path,
					"duration", duration, "status", resp.StatusCode)
			}
		},
	}
}
