package tools

import (
	"fmt"

	"github.com/zeusync/tabletop/internal/core/events"
)

// Descriptor describes a tool kind.
type Descriptor struct {
	Name          string `json:"name"`
	PlayerTool    bool   `json:"playerTool"`
	DefaultSelect bool   `json:"defaultSelect"`
	HasDetail     bool   `json:"hasDetail"`

	build func(Env) Tool
}

var descriptors = []Descriptor{
	{Name: NameSelect, PlayerTool: true, DefaultSelect: true, build: func(e Env) Tool { return NewSelect(e) }},
	{Name: NamePan, PlayerTool: true, build: func(e Env) Tool { return NewPan(e) }},
	{Name: NameDraw, PlayerTool: true, HasDetail: true, build: func(e Env) Tool { return NewDraw(e) }},
	{Name: NameRuler, PlayerTool: true, build: func(e Env) Tool { return NewRuler(e) }},
	{Name: NameFOW, HasDetail: true, build: func(e Env) Tool { return NewFOW(e) }},
	{Name: NameMap, HasDetail: true, build: func(e Env) Tool { return NewMap(e) }},
}

// Descriptors returns every known tool kind in menu order.
func Descriptors() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Toolset holds the tools available to one participant and the selected
// one. Players only get player tools.
type Toolset struct {
	env      Env
	tools    map[string]Tool
	order    []Descriptor
	selected string
}

func NewToolset(env Env) *Toolset {
	env = env.withDefaults()
	ts := &Toolset{env: env, tools: make(map[string]Tool, len(descriptors))}
	for _, d := range descriptors {
		if !d.PlayerTool && !env.User.IsDM {
			continue
		}
		ts.tools[d.Name] = d.build(env)
		ts.order = append(ts.order, d)
		if d.DefaultSelect {
			ts.selected = d.Name
		}
	}
	return ts
}

// Available lists the descriptors of the tools in this set.
func (ts *Toolset) Available() []Descriptor {
	out := make([]Descriptor, len(ts.order))
	copy(out, ts.order)
	return out
}

func (ts *Toolset) Selected() Tool { return ts.tools[ts.selected] }

func (ts *Toolset) Get(name string) (Tool, bool) {
	t, ok := ts.tools[name]
	return t, ok
}

// Select switches the active tool.
func (ts *Toolset) Select(name string) error {
	if _, ok := ts.tools[name]; !ok {
		if known(name) {
			return fmt.Errorf("%w: %s", ErrToolNotAllowed, name)
		}
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	ts.selected = name
	ts.env.publish(events.ToolSelected, events.ToolChange{Tool: name})
	return nil
}

// Configure passes detail options to the named tool.
func (ts *Toolset) Configure(name string, opts Options) error {
	t, ok := ts.tools[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	c, ok := t.(Configurable)
	if !ok {
		return fmt.Errorf("%w: %s has no options", ErrInvalidOption, name)
	}
	return c.Configure(opts)
}

func (ts *Toolset) MouseDown(p Pointer)   { ts.Selected().OnMouseDown(p) }
func (ts *Toolset) MouseMove(p Pointer)   { ts.Selected().OnMouseMove(p) }
func (ts *Toolset) MouseUp(p Pointer)     { ts.Selected().OnMouseUp(p) }
func (ts *Toolset) ContextMenu(p Pointer) { ts.Selected().OnContextMenu(p) }

func known(name string) bool {
	for _, d := range descriptors {
		if d.Name == name {
			return true
		}
	}
	return false
}
