package gateway

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/Niranjannn-ux/hotel-ordering-system/logger"

	"github.com/gorilla/mux"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	OrderSvcURL   string
	DisplaySvcURL string
	FrontendDir   string
}

type Gateway struct {
	config Config
	client HTTPClient
	log    *slog.Logger
}

func NewGateway(config Config, client HTTPClient, log *slog.Logger) *Gateway {
	if log == nil {
		log = logger.Discard()
	}
	if config.FrontendDir == "" {
		config.FrontendDir = "./frontend"
	}
	config.OrderSvcURL = strings.TrimRight(config.OrderSvcURL, "/")
	config.DisplaySvcURL = strings.TrimRight(config.DisplaySvcURL, "/")
	return &Gateway{
		config: config,
		client: client,
		log:    log,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":    "healthy",
		"service":   "api-gateway",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// hop-by-hop headers are not forwarded in either direction.
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Te":                  true,
	"Trailer":             true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

func copyHeaders(dst, src http.Header) {
	for k, v := range src {
		if hopHeaders[http.CanonicalHeaderKey(k)] {
			continue
		}
		dst[k] = v
	}
}

// ProxyRequest forwards r to targetURL keeping path and query. Event streams
// are flushed chunk by chunk so kitchen screens see updates as they happen.
func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	g.log.Debug("proxying request", "action", "proxy", "method", r.Method, "path", r.URL.Path, "target", targetURL)

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.log.Error("failed to create request", "action", "proxy", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	copyHeaders(req.Header, r.Header)
	req.Header.Set("X-Forwarded-Host", r.Host)

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("upstream unreachable", "action", "proxy", "target", targetURL, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadGateway, "upstream unavailable: "+err.Error())
		return
	}
	defer resp.Body.Close()

	copyHeaders(w.Header(), resp.Header)
	w.WriteHeader(resp.StatusCode)

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/event-stream") {
		g.stream(w, resp.Body)
		return
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		g.log.Error("failed to copy response", "action", "proxy", "path", r.URL.Path, "error", err)
	}
}

func (g *Gateway) stream(w http.ResponseWriter, body io.Reader) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 4096)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			return
		}
	}
}

// displayRoute reports whether path is served by the display service.
func displayRoute(path string) bool {
	return path == "/api/kds/board" ||
		path == "/api/kds/resync" ||
		strings.HasPrefix(path, "/api/board/")
}

var orderPrefixes = []string{
	"/api/items", "/api/carts", "/api/orders", "/api/stock",
	"/api/tables", "/api/reports", "/api/kds",
}

// orderRoute is checked after displayRoute, so the /api/kds prefix only
// catches the kitchen queue and the event stream.
func orderRoute(path string) bool {
	for _, prefix := range orderPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	switch {
	case displayRoute(path):
		g.ProxyRequest(w, r, g.config.DisplaySvcURL)
	case orderRoute(path):
		g.ProxyRequest(w, r, g.config.OrderSvcURL)
	case strings.HasPrefix(path, "/api/"):
		g.log.Warn("unmatched API route", "action", "route", "method", r.Method, "path", path)
		writeError(w, http.StatusNotFound, "API route not found")
	default:
		http.ServeFile(w, r, filepath.Join(g.config.FrontendDir, "index.html"))
	}
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
