package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"teamscore/ml"
	"teamscore/monitoring"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Handler serves the prediction API. Its dependencies are fixed at
// construction time; a nil predictor means the model failed to load.
type Handler struct {
	predictor ml.Predictor
	encoder   *ml.Encoder
	metrics   *monitoring.MetricsCollector
	logger    *zap.Logger
}

type HandlerConfig struct {
	Predictor ml.Predictor
	Encoder   *ml.Encoder
	Metrics   *monitoring.MetricsCollector
	Logger    *zap.Logger
}

func NewHandler(config HandlerConfig) *Handler {
	h := &Handler{
		predictor: config.Predictor,
		encoder:   config.Encoder,
		metrics:   config.Metrics,
		logger:    config.Logger,
	}
	if h.encoder == nil {
		h.encoder = ml.NewEncoder(ml.DefaultFeatureSchema(), ml.ZeroFill)
	}
	if h.metrics == nil {
		h.metrics = monitoring.NewMetricsCollector()
	}
	if h.logger == nil {
		h.logger = zap.NewNop()
	}
	h.metrics.SetModelLoaded(h.ModelLoaded())
	h.logger.Info("prediction handler ready",
		zap.Bool("model_loaded", h.ModelLoaded()),
		zap.Int("schema_columns", h.encoder.Schema().Len()),
		zap.String("unknown_category_policy", h.encoder.Policy().String()),
	)
	return h
}

func (h *Handler) ModelLoaded() bool {
	return h.predictor != nil
}

func RegisterHandlers(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("POST /predict", h.handlePredict)
	mux.HandleFunc("GET /api/health", h.handleHealth)
	mux.Handle("GET /metrics", h.metrics.Handler())
}

type indexPage struct {
	ModelLoaded bool
	Fields      []ml.FieldOption
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, indexPage{
		ModelLoaded: h.ModelLoaded(),
		Fields:      ml.FieldOptions(),
	})
	if err != nil {
		GetLogger(r.Context(), h.logger).Error("render index", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

type healthResponse struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, GetLogger(r.Context(), h.logger), http.StatusOK, healthResponse{Status: "ok", ModelLoaded: h.ModelLoaded()})
}
