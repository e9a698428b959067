package common

import (
	"context"
	"fmt"
	"sort"
)

// CallFunc performs a tool call on its raw string input.
type CallFunc func(ctx context.Context, input string) Result

// StringTool is a named string-in, string-out tool.
type StringTool struct {
	Name        string
	Description string
	// InputHelp describes the expected input string.
	InputHelp string
	// Service and Operation label the external call for metrics.
	Service   string
	Operation string
	Call      CallFunc
}

// Run calls the tool and converts a panic into a KindInternal failure.
func (t StringTool) Run(ctx context.Context, input string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Failure("Internal error in "+t.Name, Errorf(KindInternal, "panic: %v", r))
		}
	}()
	if t.Call == nil {
		return Failure("Internal error in "+t.Name, Errorf(KindInternal, "tool has no implementation"))
	}
	return t.Call(ctx, input)
}

// Invoke calls the tool and renders the result.
func (t StringTool) Invoke(ctx context.Context, input string) string {
	return t.Run(ctx, input).String()
}

// Registry holds tools by name.
type Registry struct {
	tools map[string]StringTool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]StringTool)}
}

// Register adds tools. A duplicate name is an error.
func (r *Registry) Register(tools ...StringTool) error {
	for _, t := range tools {
		if t.Name == "" {
			return fmt.Errorf("tool name is required")
		}
		if _, exists := r.tools[t.Name]; exists {
			return fmt.Errorf("tool %q is already registered", t.Name)
		}
		r.tools[t.Name] = t
	}
	return nil
}

// Lookup returns the tool called name.
func (r *Registry) Lookup(name string) (StringTool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all tools sorted by name.
func (r *Registry) Tools() []StringTool {
	out := make([]StringTool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Run calls the named tool.
func (r *Registry) Run(ctx context.Context, name, input string) (Result, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return Result{}, fmt.Errorf("unknown tool %q", name)
	}
	return t.Run(ctx, input), nil
}
