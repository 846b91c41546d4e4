package tools

import (
	"sort"
	"sync"

	"github.com/mark3labs/mcp-go/server"
)

// Registry stores tools by name for discovery and lookup.
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// NewRegistry constructs an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds or replaces a tool under its own name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get retrieves a tool by name if registered.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the sorted names of all registered tools.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// GetMetadata returns catalog metadata for a tool name.
func (r *Registry) GetMetadata(name string) (Definition, bool) {
	return LookupDefinition(name)
}

// Mount adds every registered tool to s. The first middleware is outermost.
func (r *Registry) Mount(s *server.MCPServer, middleware ...Middleware) {
	for _, name := range r.List() {
		t, _ := r.Get(name)
		for i := len(middleware) - 1; i >= 0; i-- {
			t = middleware[i].Wrap(t)
		}
		s.AddTool(t.Definition(), server.ToolHandlerFunc(t.Execute))
	}
}
