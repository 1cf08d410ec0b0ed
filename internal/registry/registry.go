// Package registry holds the three resource-family maps (tools,
// resources, prompts) the protocol engine looks handlers up in.
//
// The registry is populated once, either by user code registering
// static tools or by the dynamic layer synthesising handlers from
// configuration, and is read-only thereafter — the single-process,
// populate-once-at-startup model this module commits to. Iteration
// order for list operations is insertion order; nothing downstream may
// depend on it being anything more specific than "stable for a given
// run", per the wire contract's own "unspecified" note.
package registry

import (
	"encoding/json"
	"sync"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// ToolHandler executes a tool call. arguments is the raw JSON
// "arguments" object from the request (nil/empty means {}). The
// returned value is stringified per the wire codec's rule before being
// placed in the response's content[0].text.
type ToolHandler func(arguments json.RawMessage) (any, error)

// Tool is a registry entry for the tools/list and tools/call methods.
type Tool struct {
	Name        string
	Description string
	InputSchema mcp.ToolInputSchema
	Handler     ToolHandler
}

// ResourceReader produces the textual content of a resource on demand.
type ResourceReader func() (string, error)

// Resource is a registry entry for the resources/list and
// resources/read methods.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
	Reader      ResourceReader
}

// PromptRenderer renders a prompt's messages given its arguments.
type PromptRenderer func(arguments json.RawMessage) (*mcp.GetPromptResult, error)

// Prompt is a registry entry for the prompts/list and prompts/get
// methods.
type Prompt struct {
	Name        string
	Description string
	Arguments   []mcp.PromptArgumentSchema
	Renderer    PromptRenderer
}

// Registry is the in-memory store for all three resource families.
// Each family is guarded by its own RWMutex so a slow iteration over
// one family never blocks lookups in another.
type Registry struct {
	toolsMu  sync.RWMutex
	tools    map[string]*Tool
	toolOrd  []string

	resourcesMu sync.RWMutex
	resources   map[string]*Resource
	resourceOrd []string

	promptsMu  sync.RWMutex
	prompts    map[string]*Prompt
	promptOrd  []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
		prompts:   make(map[string]*Prompt),
	}
}

// AddTool registers a tool. Replacing an existing name overwrites it in
// place (the invariant's "implementations may reject or overwrite
// consistently" branch) and preserves its original position.
func (r *Registry) AddTool(t *Tool) {
	r.toolsMu.Lock()
	defer r.toolsMu.Unlock()
	if _, exists := r.tools[t.Name]; !exists {
		r.toolOrd = append(r.toolOrd, t.Name)
	}
	r.tools[t.Name] = t
}

// Tool looks a tool up by name.
func (r *Registry) Tool(name string) (*Tool, bool) {
	r.toolsMu.RLock()
	defer r.toolsMu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns every registered tool in insertion order.
func (r *Registry) Tools() []*Tool {
	r.toolsMu.RLock()
	defer r.toolsMu.RUnlock()
	out := make([]*Tool, 0, len(r.toolOrd))
	for _, name := range r.toolOrd {
		out = append(out, r.tools[name])
	}
	return out
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	r.toolsMu.RLock()
	defer r.toolsMu.RUnlock()
	return len(r.tools)
}

// AddResource registers a resource, keyed by its URI.
func (r *Registry) AddResource(res *Resource) {
	r.resourcesMu.Lock()
	defer r.resourcesMu.Unlock()
	if _, exists := r.resources[res.URI]; !exists {
		r.resourceOrd = append(r.resourceOrd, res.URI)
	}
	r.resources[res.URI] = res
}

// Resource looks a resource up by URI.
func (r *Registry) Resource(uri string) (*Resource, bool) {
	r.resourcesMu.RLock()
	defer r.resourcesMu.RUnlock()
	res, ok := r.resources[uri]
	return res, ok
}

// Resources returns every registered resource in insertion order.
func (r *Registry) Resources() []*Resource {
	r.resourcesMu.RLock()
	defer r.resourcesMu.RUnlock()
	out := make([]*Resource, 0, len(r.resourceOrd))
	for _, uri := range r.resourceOrd {
		out = append(out, r.resources[uri])
	}
	return out
}

// ResourceCount returns the number of registered resources.
func (r *Registry) ResourceCount() int {
	r.resourcesMu.RLock()
	defer r.resourcesMu.RUnlock()
	return len(r.resources)
}

// AddPrompt registers a prompt.
func (r *Registry) AddPrompt(p *Prompt) {
	r.promptsMu.Lock()
	defer r.promptsMu.Unlock()
	if _, exists := r.prompts[p.Name]; !exists {
		r.promptOrd = append(r.promptOrd, p.Name)
	}
	r.prompts[p.Name] = p
}

// Prompt looks a prompt up by name.
func (r *Registry) Prompt(name string) (*Prompt, bool) {
	r.promptsMu.RLock()
	defer r.promptsMu.RUnlock()
	p, ok := r.prompts[name]
	return p, ok
}

// Prompts returns every registered prompt in insertion order.
func (r *Registry) Prompts() []*Prompt {
	r.promptsMu.RLock()
	defer r.promptsMu.RUnlock()
	out := make([]*Prompt, 0, len(r.promptOrd))
	for _, name := range r.promptOrd {
		out = append(out, r.prompts[name])
	}
	return out
}

// PromptCount returns the number of registered prompts.
func (r *Registry) PromptCount() int {
	r.promptsMu.RLock()
	defer r.promptsMu.RUnlock()
	return len(r.prompts)
}
