// Package tools implements the assistant's data-fetching tools and their registry.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/williamvp10/chatbot-nasa/internal/adapter/llm"
)

// ExecutorFunc runs a tool and returns its textual result. Provider failures
// are reported inside the text so the conversation keeps going; the error
// return is reserved for unusable invocations.
type ExecutorFunc func(ctx context.Context, args json.RawMessage) (string, error)

// Registry maps tool names to executors and carries the definitions bound to
// the language model. It is assembled explicitly at construction time; there
// is no discovery and no package-level default.
type Registry struct {
	mu        sync.RWMutex
	executors map[string]ExecutorFunc
	defs      []llm.Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]ExecutorFunc),
	}
}

// Register adds a tool definition and its executor.
func (r *Registry) Register(def llm.Tool, exec ExecutorFunc) error {
	name := def.Function.Name
	if name == "" {
		return fmt.Errorf("tool name is required")
	}
	if exec == nil {
		return fmt.Errorf("executor is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[name]; exists {
		return fmt.Errorf("executor already registered for %s", name)
	}
	r.executors[name] = exec
	r.defs = append(r.defs, def)
	return nil
}

// MustRegister adds a tool or panics.
func (r *Registry) MustRegister(def llm.Tool, exec ExecutorFunc) {
	if err := r.Register(def, exec); err != nil {
		panic(err)
	}
}

// Definitions returns the tool definitions to bind to the language model.
func (r *Registry) Definitions() []llm.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]llm.Tool, len(r.defs))
	copy(out, r.defs)
	return out
}

// Execute runs the executor for the tool name.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	if name == "" {
		return "", fmt.Errorf("tool name is required")
	}
	r.mu.RLock()
	exec := r.executors[name]
	r.mu.RUnlock()
	if exec == nil {
		return "", fmt.Errorf("no executor registered for %s", name)
	}
	return exec(ctx, args)
}
