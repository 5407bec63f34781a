package server

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"ptb/internal/event"
	"ptb/internal/tool"
)

/*

GET  /ping          -> "Ok"
GET  /tools         -> registered tool descriptions
POST /tools/{name}  -> body = tool arguments, response = {"text": ..., "isError": ...}
WS   /events        -> watch-session event stream

*/

// HTTPServer serves the dispatcher over HTTP.
type HTTPServer struct {
	dispatcher *tool.Dispatcher
	bus        *event.Bus
	upgrader   websocket.Upgrader
}

// NewHTTPServer creates an HTTP transport over the given dispatcher. The
// bus feeds the /events websocket stream and may be nil.
func NewHTTPServer(d *tool.Dispatcher, bus *event.Bus) *HTTPServer {
	return &HTTPServer{dispatcher: d, bus: bus}
}

// Router builds the route table.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ping", s.ping).Methods(http.MethodGet)
	r.HandleFunc("/tools", s.listTools).Methods(http.MethodGet)
	r.HandleFunc("/tools/{name}", s.callTool).Methods(http.MethodPost)
	r.HandleFunc("/events", s.events).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves until the listener fails.
func (s *HTTPServer) ListenAndServe(addr string) error {
	log.Printf("Listening on %s", addr)
	return http.ListenAndServe(addr, s.Router())
}

func (s *HTTPServer) ping(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("Ok\n"))
}

func (s *HTTPServer) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.dispatcher.Tools())
}

func (s *HTTPServer) callTool(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("could not read request body"))
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	// Tool failures are payload-level, not HTTP-level
	resp := s.dispatcher.Call(r.Context(), name, json.RawMessage(body))
	writeJSON(w, resp)
}

func (s *HTTPServer) events(w http.ResponseWriter, r *http.Request) {
	c, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer c.Close()

	if s.bus == nil {
		return
	}
	sub := s.bus.Subscribe()
	defer s.bus.Unsubscribe(sub)

	for evt := range sub {
		if err := c.WriteJSON(evt); err != nil {
			log.Printf("websocket output error: %v", err)
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Write(data)
}
