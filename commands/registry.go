package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/josephlewis42/cmdshell/core/shellctx"
)

// Builtin is a command implemented inside the shell.
type Builtin interface {
	Main(ctx *shellctx.Context, args []string) Result
}

// BuiltinFunc adapts a function to the Builtin interface.
type BuiltinFunc func(ctx *shellctx.Context, args []string) Result

var _ Builtin = (BuiltinFunc)(nil)

// Main implements Builtin.
func (f BuiltinFunc) Main(ctx *shellctx.Context, args []string) Result {
	return f(ctx, args)
}

// Entry is a registered built-in.
type Entry struct {
	// Names holds the canonical name followed by any aliases, all upper case.
	Names []string
	// Use is a one line usage string.
	Use string
	// Short is a one line description.
	Short string
	Main  Builtin
}

// Name returns the canonical name.
func (e *Entry) Name() string {
	return e.Names[0]
}

// Registry maps case-insensitive names onto built-ins. It is built once at
// startup and read-only afterwards.
type Registry struct {
	entries []*Entry
	byName  map[string]*Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry)}
}

func canonical(name string) string {
	return strings.ToUpper(name)
}

// Register adds a built-in under its canonical name.
func (r *Registry) Register(name, use, short string, main Builtin) (*Entry, error) {
	key := canonical(name)
	if _, ok := r.byName[key]; ok {
		return nil, fmt.Errorf("builtin %q already registered", key)
	}

	entry := &Entry{Names: []string{key}, Use: use, Short: short, Main: main}
	r.entries = append(r.entries, entry)
	r.byName[key] = entry
	return entry, nil
}

// Alias makes alias dispatch to the same built-in as target.
func (r *Registry) Alias(alias, target string) error {
	entry, ok := r.byName[canonical(target)]
	if !ok {
		return fmt.Errorf("alias %q: unknown builtin %q", alias, target)
	}
	key := canonical(alias)
	if _, ok := r.byName[key]; ok {
		return fmt.Errorf("builtin %q already registered", key)
	}

	entry.Names = append(entry.Names, key)
	r.byName[key] = entry
	return nil
}

// Lookup finds a built-in by name, ignoring case.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	entry, ok := r.byName[canonical(name)]
	return entry, ok
}

// Resolve is Lookup for a command name as typed by the user. Names that look
// like paths always refer to programs, so they never match a built-in.
func (r *Registry) Resolve(name string) (*Entry, bool) {
	if IsPathLike(name) {
		return nil, false
	}
	return r.Lookup(name)
}

// Entries returns the built-ins in registration order.
func (r *Registry) Entries() []*Entry {
	return append([]*Entry(nil), r.entries...)
}

// Names returns every name and alias, sorted.
func (r *Registry) Names() []string {
	var out []string
	for name := range r.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsPathLike reports whether a command name contains a directory component
// and so should never be looked up on PATH or in the built-ins.
func IsPathLike(name string) bool {
	switch {
	case strings.ContainsAny(name, `/\`):
		return true
	case len(name) >= 2 && name[1] == ':' && isDriveLetter(name[0]):
		return true
	default:
		return filepath.IsAbs(name)
	}
}

func isDriveLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the registry of every built-in the shell ships.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		RegisterAll(defaultRegistry)
	})
	return defaultRegistry
}
