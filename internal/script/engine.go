package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/config"
)

// Default limits for the Lua state.
const (
	DefaultTimeout       = 5 * time.Second
	DefaultCallStackSize = 256
	DefaultRegistrySize  = 5120
)

// Engine runs Lua scripts against a session.
//
// An Engine is not safe for concurrent use; like the session it drives, it
// belongs to one goroutine.
type Engine struct {
	L *lua.LState

	session *app.Session
	logger  *zap.Logger
	out     io.Writer

	timeout       time.Duration
	callStackSize int
	registrySize  int

	// running is set while a Lua command executes inside the history.
	running bool
	closed  bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout bounds the run time of each script. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithCallStackSize sets the Lua call stack size.
func WithCallStackSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.callStackSize = n
		}
	}
}

// WithRegistrySize sets the Lua registry size.
func WithRegistrySize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.registrySize = n
		}
	}
}

// WithConfig applies the [script] configuration section.
func WithConfig(cfg config.ScriptConfig) Option {
	return func(e *Engine) {
		WithTimeout(cfg.Timeout.Duration)(e)
		WithCallStackSize(cfg.CallStackSize)(e)
		WithRegistrySize(cfg.RegistrySize)(e)
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOutput redirects the Lua print function. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.out = w
		}
	}
}

// New creates a sandboxed engine bound to session.
func New(session *app.Session, opts ...Option) *Engine {
	e := &Engine{
		session:       session,
		logger:        zap.NewNop(),
		out:           os.Stdout,
		timeout:       DefaultTimeout,
		callStackSize: DefaultCallStackSize,
		registrySize:  DefaultRegistrySize,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.L = lua.NewState(lua.Options{
		CallStackSize: e.callStackSize,
		RegistrySize:  e.registrySize,
		SkipOpenLibs:  true,
	})
	openSafeLibraries(e.L)
	e.sandbox()
	e.register()

	session.Names().Register(&Command{}, "Script command")
	return e
}

// openSafeLibraries opens the Lua libraries without file, process or
// module access.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

func (e *Engine) sandbox() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		e.L.SetGlobal(name, lua.LNil)
	}
	e.L.SetGlobal("print", e.L.NewFunction(e.print))
}

func (e *Engine) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}
	fmt.Fprintln(e.out, strings.Join(parts, "\t"))
	return 0
}

// DoString runs a Lua chunk.
func (e *Engine) DoString(ctx context.Context, code string) error {
	return e.run(ctx, "chunk", func() error { return e.L.DoString(code) })
}

// DoFile runs a Lua file.
func (e *Engine) DoFile(ctx context.Context, path string) error {
	return e.run(ctx, path, func() error { return e.L.DoFile(path) })
}

func (e *Engine) run(ctx context.Context, name string, fn func() error) (err error) {
	if e.closed {
		return ErrClosed
	}
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	start := time.Now()
	err = fn()
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %v: %w", ErrTimeout, e.timeout, err)
	}
	e.logger.Debug("script finished",
		zap.String("script", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return err
}

// Close releases the Lua state. It is safe to call more than once.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}
