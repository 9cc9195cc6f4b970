package formula

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/charmbracelet/log"

	"github.com/goplus/llarhub/pkgs/mod/module"
	"github.com/goplus/llarhub/pkgs/mod/versions"
)

// Dependency is an already-built package this build consumes.
type Dependency struct {
	Ref        module.Ref
	PackageDir string
	Options    Options
}

// Context carries everything a phase needs: the configuration, the
// workspace directories and the dependencies.
type Context struct {
	Name    string
	Version string
	Config  Config

	SourceDir     string
	BuildDir      string
	GeneratorsDir string
	PackageDir    string

	// Exports holds the files shipped with the recipe.
	Exports fs.FS

	// Versions is the parsed versions manifest of the recipe.
	Versions *versions.File

	Dependencies map[string]Dependency

	Logger *log.Logger
	Stdout io.Writer
	Stderr io.Writer

	ctx context.Context
}

// Context returns the context bounding the external tools run by this phase.
func (c *Context) Context() context.Context {
	if c.ctx != nil {
		return c.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of c bound to ctx.
func (c *Context) WithContext(ctx context.Context) *Context {
	c2 := *c
	c2.ctx = ctx
	return &c2
}

// Settings is a shortcut for c.Config.Settings.
func (c *Context) Settings() Settings { return c.Config.Settings }

// Options is a shortcut for c.Config.Options.
func (c *Context) Options() Options { return c.Config.Options }

// Dependency returns the dependency called name.
func (c *Context) Dependency(name string) (Dependency, error) {
	dep, ok := c.Dependencies[name]
	if !ok {
		return Dependency{}, fmt.Errorf("%s: dependency %s is not available", c.Name, name)
	}
	return dep, nil
}

// ReadExport reads a file shipped with the recipe.
func (c *Context) ReadExport(path string) ([]byte, error) {
	if c.Exports == nil {
		return nil, fmt.Errorf("%s: recipe exports no files", c.Name)
	}
	return fs.ReadFile(c.Exports, path)
}

// Command prepares an external command that runs in SourceDir with the phase's
// output writers and is killed when the phase context is done.
func (c *Context) Command(name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(c.Context(), name, args...)
	cmd.Dir = c.SourceDir
	cmd.Stdout = c.stdout()
	cmd.Stderr = c.stderr()
	return cmd
}

// Log returns the phase logger, never nil.
func (c *Context) Log() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

func (c *Context) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Context) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}
