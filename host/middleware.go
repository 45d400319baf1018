package host

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/casper-native/erc20-host/domain/errors"
	"github.com/casper-native/erc20-host/domain/ports"
	"github.com/casper-native/erc20-host/hostfuncs"
)

// Middleware wraps an EntryPoint to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
//
// Contract code ends through panics (ret, revert, fatal errors). Middleware
// that recovers must re-panic with the same value so the executor sees it.
type Middleware func(next EntryPoint) EntryPoint

// outcome classifies a recovered panic value for logging.
func outcome(r any) string {
	switch r.(type) {
	case nil:
		return "completed"
	case *hostfuncs.ReturnSignal:
		return "returned"
	case *errors.RevertError:
		return "reverted"
	default:
		return "fatal"
	}
}

// LoggingMiddleware logs every invocation with its outcome and duration.
// Fatal outcomes are logged at error level, everything else at debug.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next EntryPoint) EntryPoint {
		return func(ctx context.Context, api ports.HostABI) {
			name := "unknown"
			if cc, ok := ctx.(CallContext); ok {
				name = cc.EntryPoint()
			}
			start := time.Now()
			logger.DebugContext(ctx, "invoking entry point", "entry_point", name)
			defer func() {
				r := recover()
				attrs := []any{"entry_point", name, "outcome", outcome(r), "duration", time.Since(start)}
				if rev, ok := r.(*errors.RevertError); ok {
					attrs = append(attrs, "code", uint32(rev.Code))
				}
				if outcome(r) == "fatal" {
					logger.ErrorContext(ctx, "entry point halted", append(attrs, "panic", r)...)
				} else {
					logger.DebugContext(ctx, "entry point finished", attrs...)
				}
				if r != nil {
					panic(r)
				}
			}()
			next(ctx, api)
		}
	}
}

// RecoverMiddleware converts runtime panics raised by contract code, such as a
// nil dereference, into FatalErrors so the executor reports them uniformly.
// ret and revert pass through untouched.
func RecoverMiddleware() Middleware {
	return func(next EntryPoint) EntryPoint {
		return func(ctx context.Context, api ports.HostABI) {
			defer func() {
				r := recover()
				switch sig := r.(type) {
				case nil:
					return
				case *hostfuncs.ReturnSignal, *errors.RevertError, *errors.FatalError:
					panic(sig)
				case error:
					panic(&errors.FatalError{Op: "contract", Err: sig})
				default:
					panic(&errors.FatalError{Op: "contract", Err: &panicValue{value: sig}})
				}
			}()
			next(ctx, api)
		}
	}
}

type panicValue struct {
	value any
}

func (p *panicValue) Error() string {
	return fmt.Sprintf("panic: %v", p.value)
}
