package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/xmltree"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/registry"
	"github.com/go-chi/chi/v5"
)

// DefaultMaxBodySize bounds request bodies (1 MiB).
const DefaultMaxBodySize = 1 << 20

// Builder is the part of arbor.Builder the server needs.
type Builder interface {
	FromBytes(data []byte) (any, error)
	Registry() *registry.Registry
}

// Server exposes a Builder over HTTP.
type Server struct {
	Builder     Builder
	Parser      ports.TreeParser
	Metrics     *observability.Metrics
	Logger      *slog.Logger
	MaxBodySize int64
}

// Option configures the Server.
type Option func(*Server)

// WithParser sets the parser used by POST /tree. It should match the builder's parser.
func WithParser(p ports.TreeParser) Option {
	return func(s *Server) {
		s.Parser = p
	}
}

// WithMetrics records build durations on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMaxBodySize overrides DefaultMaxBodySize.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		s.MaxBodySize = n
	}
}

// NewHandler creates a new HTTP handler for the builder.
//
//	GET  /healthz  liveness probe
//	GET  /tags     the registry bindings
//	POST /tree     parse the body and return the markup tree
//	POST /build    build the body and return the root object
func NewHandler(b Builder, opts ...Option) http.Handler {
	server := &Server{
		Builder:     b,
		MaxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(server)
	}
	if server.Parser == nil {
		server.Parser = xmltree.New()
	}
	if server.Logger == nil {
		server.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Get("/healthz", server.Health)
	r.Get("/tags", server.Tags)
	r.Post("/tree", server.Tree)
	r.Post("/build", server.Build)
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TagInfo describes one registry entry.
type TagInfo struct {
	Tag         string    `json:"tag"`
	Description string    `json:"description,omitempty"`
	Params      []string  `json:"params,omitempty"`
	Open        bool      `json:"open,omitempty"`
	Mount       string    `json:"mount,omitempty"`
	Tags        []TagInfo `json:"tags,omitempty"`
}

// Tags handles GET /tags.
func (s *Server) Tags(w http.ResponseWriter, r *http.Request) {
	reg := s.Builder.Registry()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"registry": reg.Name(),
		"tags":     describeRegistry(reg),
	})
}

func describeRegistry(reg *registry.Registry) []TagInfo {
	entries := reg.Entries()
	out := make([]TagInfo, 0, len(entries))
	for _, e := range entries {
		info := TagInfo{Tag: e.Tag}
		if e.Sub != nil {
			info.Mount = e.Sub.Name()
			info.Tags = describeRegistry(e.Sub)
		} else {
			info.Description = e.Binding.Description
			info.Open = e.Binding.Open
			for _, p := range e.Binding.Params {
				info.Params = append(info.Params, p.Name)
			}
		}
		out = append(out, info)
	}
	return out
}

// Tree handles POST /tree.
func (s *Server) Tree(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	root, err := s.Parser.Parse(body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, root)
}

// Build handles POST /build.
func (s *Server) Build(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	build := func() (any, error) { return s.Builder.FromBytes(body) }
	var (
		obj any
		err error
	)
	if s.Metrics != nil {
		obj, err = s.Metrics.Time(build)
	} else {
		obj, err = build()
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"root": obj})
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error(), Kind: "too_large"})
			return nil, false
		}
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "bad_request"})
		return nil, false
	}
	return body, true
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Tag    string `json:"tag,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error(), Kind: domain.ErrorKind(err)}
	if n := domain.ErrorNode(err); n != nil {
		resp.Tag = n.Tag
		resp.Line, resp.Column = n.Pos.Line, n.Pos.Column
	}
	var malformed *domain.MalformedInputError
	if errors.As(err, &malformed) {
		resp.Line, resp.Column = malformed.Pos.Line, malformed.Pos.Column
	}

	status := http.StatusUnprocessableEntity
	switch resp.Kind {
	case "malformed_input":
		status = http.StatusBadRequest
	case "internal":
		status = http.StatusInternalServerError
	}
	s.Logger.Warn("request failed", "kind", resp.Kind, "error", err)
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.Logger.Error("response encode failed", "error", err)
		http.Error(w, fmt.Sprintf(`{"error":%q,"kind":"internal"}`, err.Error()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
