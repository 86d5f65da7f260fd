// Package anim derives per-channel brightness levels for the chaser. Patterns
// are pure level producers; encoding and playback live elsewhere.
package anim

import "github.com/example/ledchase/internal/pwm"

// Pattern advances one animation phase per tick and returns the eight target
// levels for that tick.
type Pattern interface {
	Name() string
	Tick() pwm.Levels
}

// Registry maps pattern names to constructors. Constructors, not instances:
// every caller gets a pattern with fresh phase state.
type Registry struct{ m map[string]func() Pattern }

func NewRegistry() *Registry { return &Registry{m: map[string]func() Pattern{}} }

func (r *Registry) Register(name string, fn func() Pattern) {
	if fn == nil {
		return
	}
	r.m[name] = fn
}

func (r *Registry) New(name string) (Pattern, bool) {
	fn, ok := r.m[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	return out
}

// Default returns a registry with all built-in patterns registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register("comet", func() Pattern { return NewComet() })
	r.Register("bounce", func() Pattern { return NewBounce() })
	r.Register("breathe", func() Pattern { return NewBreathe() })
	return r
}
