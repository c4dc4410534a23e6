package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/scamlens/internal/application/analysis"
	appuploads "github.com/bryanwahyu/scamlens/internal/application/uploads"
	domain "github.com/bryanwahyu/scamlens/internal/domain/analysis"
	"github.com/bryanwahyu/scamlens/internal/domain/history"
	"github.com/bryanwahyu/scamlens/internal/metrics"
	"github.com/bryanwahyu/scamlens/internal/middleware"
)

// maxUploadBytes caps one multipart upload at 10 MiB.
const maxUploadBytes = 10 << 20

type Router struct {
	analysisSvc *appanalysis.Service
	uploadSvc   *appuploads.Service
	historyRepo history.Repository // nil when no database is configured
	hasAPIKey   bool
}

type Options struct {
	Analysis *appanalysis.Service
	Uploads  *appuploads.Service
	History  history.Repository
	// HasAPIKey mirrors startup validation; when false every analyze call
	// answers 500 without touching the provider.
	HasAPIKey bool
	// Health checkers by name; served on /health.
	Checkers map[string]middleware.HealthChecker
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
}

func NewRouter(opts Options) http.Handler {
	r := &Router{
		analysisSvc: opts.Analysis,
		uploadSvc:   opts.Uploads,
		historyRepo: opts.History,
		hasAPIKey:   opts.HasAPIKey,
	}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	// Method checks live inside the handlers so 405 bodies and the Allow
	// header match the public contract exactly.
	mux.Handle("/api/analyze", http.HandlerFunc(r.handleAnalyze))
	mux.Handle("/api/upload", http.HandlerFunc(r.handleUpload))
	mux.Get("/api/analyses", r.handleHistory)

	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	if opts.MetricsHandler != nil {
		mux.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	return mux
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// POST /api/analyze
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed. Use POST."})
		return
	}

	// Lenient decode: a missing or malformed body means empty fields, the
	// same as the form posting nothing.
	var body domain.Request
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	if !r.hasAPIKey {
		metrics.Analyze("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Missing GEMINI_API_KEY"})
		return
	}

	out, err := r.analysisSvc.Analyze(req.Context(), body)
	if err != nil {
		metrics.Analyze("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "Analysis failed",
			"detail": err.Error(),
		})
		return
	}

	if out.IsDegraded() {
		metrics.Analyze("degraded")
	} else {
		metrics.Analyze("ok")
	}
	writeJSON(w, http.StatusOK, out.Payload())
}

// POST /api/upload
func (r *Router) handleUpload(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		metrics.Upload("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "Upload failed",
			"detail": err.Error(),
		})
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		metrics.Upload("error")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		metrics.Upload("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "Upload failed",
			"detail": err.Error(),
		})
		return
	}

	url, err := r.uploadSvc.Upload(req.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		metrics.Upload("error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":  "Upload failed",
			"detail": err.Error(),
		})
		return
	}

	metrics.Upload("ok")
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

// GET /api/analyses?page=&page_size=
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	if r.historyRepo == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "history is not enabled"})
		return
	}

	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
	size = clampPageSize(size)

	list, err := r.historyRepo.Paginate(req.Context(), page, size)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if list == nil {
		list = []*history.Record{}
	}
	writeJSON(w, http.StatusOK, list)
}

func clampPageSize(size int) int {
	if size <= 0 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}
