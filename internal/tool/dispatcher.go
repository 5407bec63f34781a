// Package tool defines the request-dispatch boundary: the tools exposed to
// a calling client, argument validation, and the error-flagged response
// envelope. Transports (stdio, HTTP) sit on top of this package.
package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
)

// Response is the single text payload every tool call returns. IsError
// distinguishes "ran, here are results" from "could not run".
type Response struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError,omitempty"`
}

// Errorf builds an error-flagged response.
func Errorf(format string, args ...any) Response {
	return Response{Text: fmt.Sprintf(format, args...), IsError: true}
}

// Handler executes one tool invocation.
type Handler func(ctx context.Context, args json.RawMessage) Response

// Tool is one callable operation.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
	Handler     Handler         `json:"-"`
}

// Dispatcher routes tool invocations by name. Every failure inside an
// invocation is converted into an error-flagged response; nothing
// propagates to the transport.
type Dispatcher struct {
	tools map[string]Tool
	order []string
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{tools: make(map[string]Tool)}
}

// Register adds a tool. Later registrations with the same name win.
func (d *Dispatcher) Register(t Tool) {
	if _, exists := d.tools[t.Name]; !exists {
		d.order = append(d.order, t.Name)
	}
	d.tools[t.Name] = t
}

// Tools lists registered tools in registration order.
func (d *Dispatcher) Tools() []Tool {
	out := make([]Tool, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.tools[name])
	}
	return out
}

// Call dispatches one invocation. Unknown tool names and handler panics
// become error-flagged responses.
func (d *Dispatcher) Call(ctx context.Context, name string, args json.RawMessage) (resp Response) {
	t, ok := d.tools[name]
	if !ok {
		return Errorf("Unknown tool: %s", name)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("tool %s panicked: %v", name, r)
			resp = Errorf("Internal error in tool %s: %v", name, r)
		}
	}()

	return t.Handler(ctx, args)
}
