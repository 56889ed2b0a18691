package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/FACorreiaa/go-concierge/internal/app/models"
)

// Transport posts a JSON body to a completion path and returns the event
// stream. Non-2xx answers are reported as models.ErrUpstream.
type Transport interface {
	Post(ctx context.Context, path string, body any) (io.ReadCloser, error)
}

// HTTPTransport talks to a running concierge server.
type HTTPTransport struct {
	baseURL string
	client  *http.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (t *HTTPTransport) Post(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("POST %s: status %d: %w", path, resp.StatusCode, models.ErrUpstream)
	}
	return resp.Body, nil
}

// LocalTransport serves requests with an in-process handler, piping the
// response body back as it is written.
type LocalTransport struct {
	mu      sync.RWMutex
	handler http.Handler
}

func NewLocalTransport(h http.Handler) *LocalTransport {
	return &LocalTransport{handler: h}
}

// SetHandler swaps the handler. Routers that host consumers of their own
// endpoints set it once the engine is built.
func (t *LocalTransport) SetHandler(h http.Handler) {
	t.mu.Lock()
	t.handler = h
	t.mu.Unlock()
}

func (t *LocalTransport) Post(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	t.mu.RLock()
	h := t.handler
	t.mu.RUnlock()
	if h == nil {
		return nil, fmt.Errorf("POST %s: no handler: %w", path, models.ErrUpstream)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding %s body: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	pr, pw := io.Pipe()
	w := &pipeResponseWriter{header: make(http.Header), pw: pw, status: make(chan int, 1)}
	go func() {
		h.ServeHTTP(w, req)
		w.WriteHeader(http.StatusOK)
		pw.Close()
	}()

	var status int
	select {
	case status = <-w.status:
	case <-ctx.Done():
		pr.CloseWithError(ctx.Err())
		return nil, ctx.Err()
	}
	if status < 200 || status > 299 {
		pr.Close()
		return nil, fmt.Errorf("POST %s: status %d: %w", path, status, models.ErrUpstream)
	}
	return pr, nil
}

type pipeResponseWriter struct {
	header http.Header
	pw     *io.PipeWriter
	once   sync.Once
	status chan int
}

func (w *pipeResponseWriter) Header() http.Header { return w.header }

func (w *pipeResponseWriter) WriteHeader(code int) {
	w.once.Do(func() { w.status <- code })
}

func (w *pipeResponseWriter) Write(b []byte) (int, error) {
	w.WriteHeader(http.StatusOK)
	return w.pw.Write(b)
}

func (w *pipeResponseWriter) Flush() {}
