// Package factory is a small plug-in registry: components such as metrics
// sinks register a constructor under a type name and are later built from
// their configuration section.
package factory

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// ModuleConfig selects a registered constructor by type name and carries its
// raw settings.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory builds a T from the raw conf map of a ModuleConfig.
type Factory[T any] func(conf map[string]any) (T, error)

// Registry maps type names to factories. Safe for concurrent use.
type Registry[T any] struct {
	mu     sync.RWMutex
	byName map[string]Factory[T]
}

// NewRegistry returns an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{byName: make(map[string]Factory[T])}
}

// Register binds a constructor to a type name. A nil constructor or a name
// already taken is an error.
func (r *Registry[T]) Register(name string, f Factory[T]) error {
	if f == nil {
		return fmt.Errorf("factory: nil constructor for %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("factory: %q already registered", name)
	}
	r.byName[name] = f
	return nil
}

// Create builds the module selected by cfg.Type. Unknown types report the
// registered alternatives.
func (r *Registry[T]) Create(cfg ModuleConfig) (T, error) {
	r.mu.RLock()
	f, ok := r.byName[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		var zero T
		return zero, fmt.Errorf("factory: unknown type %q (registered: %s)",
			cfg.Type, strings.Join(r.names(), ", "))
	}
	return f(cfg.Conf)
}

func (r *Registry[T]) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byName))
	for n := range r.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Decode fills a settings struct from a raw conf map, matching json tags.
func Decode(conf map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(conf)
}
