// Package server exposes the tool dispatcher over transports: a
// newline-delimited JSON-RPC loop on stdio and an HTTP API with a
// websocket event stream.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"ptb/internal/tool"
)

const protocolVersion = "2024-11-05"

// Version is stamped at build time.
var Version = "dev"

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// StdioServer serves tool invocations over a line-oriented JSON-RPC
// request/response stream.
type StdioServer struct {
	dispatcher *tool.Dispatcher
	in         io.Reader
	out        io.Writer
	mu         sync.Mutex // guards out
}

// NewStdioServer creates a server reading requests from in and writing
// responses to out.
func NewStdioServer(d *tool.Dispatcher, in io.Reader, out io.Writer) *StdioServer {
	return &StdioServer{dispatcher: d, in: in, out: out}
}

// Serve processes requests until EOF or a transport-level read error.
// Failures inside an invocation never end the loop.
func (s *StdioServer) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req rpcRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			s.write(rpcResponse{JSONRPC: "2.0", Error: &rpcError{Code: -32700, Message: "parse error"}})
			continue
		}

		// Notifications get no response
		if len(req.ID) == 0 || string(req.ID) == "null" {
			continue
		}
		s.write(s.handle(ctx, req))
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}
	return nil
}

func (s *StdioServer) handle(ctx context.Context, req rpcRequest) rpcResponse {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "ptb", "version": Version},
		}

	case "tools/list":
		resp.Result = map[string]any{"tools": s.dispatcher.Tools()}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &rpcError{Code: -32602, Message: fmt.Sprintf("invalid params: %v", err)}
			return resp
		}
		r := s.dispatcher.Call(ctx, params.Name, params.Arguments)
		resp.Result = callResult{
			Content: []textContent{{Type: "text", Text: r.Text}},
			IsError: r.IsError,
		}

	case "ping":
		resp.Result = map[string]any{}

	default:
		resp.Error = &rpcError{Code: -32601, Message: fmt.Sprintf("method not found: %s", req.Method)}
	}
	return resp
}

func (s *StdioServer) write(resp rpcResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	fmt.Fprintf(s.out, "%s\n", data)
}
