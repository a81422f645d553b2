package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/smartspend/internal/protocol"
)

// maxFormBytes bounds request bodies.
const maxFormBytes = 10 << 20

// Handler serves the form-encoded protocol on any path. Every reply is 200
// with a JSON body, including failures.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler wraps service in an http.Handler.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		writeJSON(w, fail(protocol.MsgInvalidAction))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse request", "error", err)
		writeJSON(w, fail("Error: "+err.Error()))
		return
	}
	if len(r.Form) == 0 {
		writeJSON(w, fail(protocol.MsgNoParameters))
		return
	}

	req := Request{
		Action:   r.Form.Get(protocol.FieldAction),
		Username: r.Form.Get(protocol.FieldUsername),
		Password: r.Form.Get(protocol.FieldPassword),
		Data:     r.Form.Get(protocol.FieldData),
	}
	writeJSON(w, h.service.Handle(r.Context(), req))
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

// withLogging logs each request at debug level.
func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// NewHTTPServer builds the server listening on addr.
func NewHTTPServer(addr string, service *Service, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              addr,
		Handler:           withLogging(logger, NewHandler(service, logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
