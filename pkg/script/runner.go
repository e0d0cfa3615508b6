package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/neatjs/neat/pkg/cookie"
	"github.com/neatjs/neat/pkg/storage"
	"github.com/neatjs/neat/pkg/telemetry"
)

// DefaultTimeout bounds a script run when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// ErrTimeout is returned when a script is cancelled by its deadline.
var ErrTimeout = errors.New("script: execution timeout")

const ctxLocal = "neat.ctx"

// Runner executes scripts.
type Runner struct {
	facade  *storage.Facade
	cookies *cookie.Store
	timeout time.Duration
	out     io.Writer
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithOutput sends script print() output to w. Output is discarded by default.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.out = w
	}
}

// Result is the outcome of a script run.
type Result struct {
	Globals       map[string]interface{}
	ExecutionTime time.Duration
}

// NewRunner creates a runner. cookies may be nil, in which case the cookie
// module is not defined.
func NewRunner(facade *storage.Facade, cookies *cookie.Store, opts ...Option) *Runner {
	r := &Runner{
		facade:  facade,
		cookies: cookies,
		timeout: DefaultTimeout,
		out:     io.Discard,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes src. input values are predeclared as globals. When ctx
// carries a telemetry.Telemetry the run is traced and logged through it.
func (r *Runner) Run(ctx context.Context, filename, src string, input map[string]interface{}) (res *Result, err error) {
	start := time.Now()

	op := telemetry.StartOperation(ctx, "script.run", attribute.String("script.file", filename))
	defer func() { op.End(err) }()
	ctx = op.Ctx
	logger := op.Logger.NewComponentLogger("script")

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(r.out, msg)
		},
	}
	thread.SetLocal(ctxLocal, runCtx)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-runCtx.Done():
			thread.Cancel(runCtx.Err().Error())
		case <-done:
		}
	}()

	predeclared := r.predeclared()
	for key, val := range input {
		sv, err := toStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert input %s: %w", key, err)
		}
		predeclared[key] = sv
	}

	globals, err := starlark.ExecFile(thread, filename, src, predeclared)
	elapsed := time.Since(start)
	if err != nil {
		if runCtx.Err() != nil && ctx.Err() == nil {
			err = fmt.Errorf("%w after %v", ErrTimeout, r.timeout)
		} else {
			err = fmt.Errorf("script %s failed: %w", filename, err)
		}
		logger.WithError(err).Warn("script failed")
		return nil, err
	}

	out := make(map[string]interface{}, len(globals))
	for name, val := range globals {
		if name == "" || name[0] == '_' {
			continue
		}
		if _, ok := val.(starlark.Callable); ok {
			continue
		}
		gv, err := fromStarlarkValue(val)
		if err != nil {
			return nil, fmt.Errorf("failed to convert output %s: %w", name, err)
		}
		out[name] = gv
	}

	logger.WithField("file", filename).
		WithField("duration", elapsed.String()).
		Debug("script finished")

	return &Result{Globals: out, ExecutionTime: elapsed}, nil
}

func (r *Runner) predeclared() starlark.StringDict {
	d := starlark.StringDict{
		"struct":  starlarkstruct.Default,
		"storage": r.storageModule(),
		"neat":    helperModule(),
	}
	if r.cookies != nil {
		d["cookie"] = r.cookieModule()
	}
	return d
}

func threadContext(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local(ctxLocal).(context.Context); ok {
		return ctx
	}
	return context.Background()
}
