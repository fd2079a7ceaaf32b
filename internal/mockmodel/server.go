// Package mockmodel implements a minimal text-generation API surface
// speaking the Ollama /api/generate protocol, returning canned completions.
// It backs integration tests and the cmd/mock-model binary.
package mockmodel

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
)

// Call records a completion request made to the mock server.
type Call struct {
	Model  string
	Prompt string
}

// Server returns a fixed completion for every prompt unless a scripted
// completion matches a substring of the prompt.
type Server struct {
	mu         sync.Mutex
	calls      []Call
	completion string
	scripted   map[string]string
	failStatus int
}

// New constructs a mock server that answers every request with completion.
func New(completion string) *Server {
	return &Server{
		completion: completion,
		scripted:   map[string]string{},
	}
}

// ScriptCompletion registers a completion returned whenever the request
// prompt contains the given substring. Substring matches win over the
// default completion.
func (s *Server) ScriptCompletion(promptContains, completion string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripted[promptContains] = completion
}

// FailWith makes every subsequent request answer with the given HTTP
// status. Pass 0 to restore normal behavior.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Calls returns a copy of all recorded requests.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// Handler returns the HTTP handler for the mock API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/generate", s.handleGenerate)
	return mux
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.calls = append(s.calls, Call{Model: req.Model, Prompt: req.Prompt})
	failStatus := s.failStatus
	completion := s.completion
	for substr, scripted := range s.scripted {
		if strings.Contains(req.Prompt, substr) {
			completion = scripted
			break
		}
	}
	s.mu.Unlock()

	if failStatus != 0 {
		http.Error(w, "scripted failure", failStatus)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(generateResponse{
		Model:    req.Model,
		Response: completion,
		Done:     true,
	})
}
