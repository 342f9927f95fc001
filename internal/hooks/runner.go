// Package hooks runs user-supplied Lua post-install hooks against an
// installed project.
package hooks

import (
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dmcrae/podforge/internal/pods"
)

// hookFunction is the global a hook script may define to receive
// control after its body has executed.
const hookFunction = "post_install"

// ErrClosed is returned when a Runner is used after Close.
var ErrClosed = errors.New("hook runner is closed")

// Env is the project state a hook script can read and rewrite through
// the pods module.
type Env struct {
	// ProjectName is the name from the manifest [project] table.
	ProjectName string

	// Project is the installed project facade.
	Project *pods.Project

	// PodNames lists the installed pods in manifest order.
	PodNames []string
}

// Runner executes hook scripts in a sandboxed Lua state.
//
// gopher-lua's LState is not goroutine-safe. A Runner must be driven
// from a single goroutine for its whole lifetime.
type Runner struct {
	L      *lua.LState
	env    Env
	closed bool
}

// NewRunner creates a runner whose scripts see env through the global
// pods table.
func NewRunner(env Env) *Runner {
	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively below
	})
	openSafeLibraries(L)

	r := &Runner{L: L, env: env}
	registerPodsModule(L, &r.env)
	return r
}

// openSafeLibraries opens only the Lua standard libraries a hook needs.
// io, os, debug and package stay closed: hooks rewrite project state
// through the pods module, not the filesystem.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Run executes the hook script at path, then invokes its post_install
// function if the script defined one.
func (r *Runner) Run(path string) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.doWithRecovery(func() error {
		return r.L.DoFile(path)
	}); err != nil {
		return fmt.Errorf("hook %s: %w", path, err)
	}
	return r.invokeHook(path)
}

// RunSource executes a hook script from source, then invokes its
// post_install function if the script defined one. The name is used in
// error messages only.
func (r *Runner) RunSource(name, source string) error {
	if r.closed {
		return ErrClosed
	}
	if err := r.doWithRecovery(func() error {
		return r.L.DoString(source)
	}); err != nil {
		return fmt.Errorf("hook %s: %w", name, err)
	}
	return r.invokeHook(name)
}

// invokeHook calls the script's post_install global. A script that
// never defines one is complete after its body runs.
func (r *Runner) invokeHook(name string) error {
	fn := r.L.GetGlobal(hookFunction)
	if fn == lua.LNil {
		return nil
	}
	if fn.Type() != lua.LTFunction {
		return fmt.Errorf("hook %s: %s is not a function (got %s)", name, hookFunction, fn.Type())
	}

	err := r.doWithRecovery(func() error {
		r.L.Push(fn)
		return r.L.PCall(0, 0, nil)
	})
	if err != nil {
		return fmt.Errorf("hook %s: %s: %w", name, hookFunction, err)
	}
	return nil
}

// doWithRecovery executes fn with panic recovery. gopher-lua panics on
// some internal errors rather than returning them.
func (r *Runner) doWithRecovery(fn func() error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("lua panic: %v", rec)
		}
	}()
	return fn()
}

// Close releases the Lua state. Close is idempotent.
func (r *Runner) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}
