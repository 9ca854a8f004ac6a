package handler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"rota-engine/internal/engine"
	"rota-engine/internal/metrics"
	"rota-engine/internal/model"
	"rota-engine/internal/planregistry"
	"rota-engine/internal/report"
	"rota-engine/internal/revision"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultTimeout caps a single analysis request.
const DefaultTimeout = 30 * time.Second

type route struct {
	method string
	serve  func(ctx *fasthttp.RequestCtx)
}

type Handler struct {
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
	timeout time.Duration
	routes  map[string]route
}

// New wires the HTTP API onto e. m may be nil, in which case /metrics is not served.
func New(e *engine.Engine, m *metrics.Metrics, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{engine: e, metrics: m, logger: logger, timeout: DefaultTimeout}
	h.routes = map[string]route{
		"/v1/analyze":             {fasthttp.MethodPost, h.handleAnalyze},
		"/v1/fares":               {fasthttp.MethodPost, h.handleFare},
		"/v1/streaks/cross-month": {fasthttp.MethodPost, h.handleCrossMonth},
		"/v1/schedule/diff":       {fasthttp.MethodPost, h.handleDiff},
		"/v1/report.xlsx":         {fasthttp.MethodPost, h.handleReport},
		"/healthz":                {fasthttp.MethodGet, h.handleHealth},
	}
	if m != nil {
		prom := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
		h.routes["/metrics"] = route{fasthttp.MethodGet, prom}
	}
	return h
}

// Serve is the fasthttp entry point.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	r, ok := h.routes[path]
	if !ok {
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
		h.metrics.ObserveRequest("other", ctx.Response.StatusCode())
		return
	}
	defer func() { h.metrics.ObserveRequest(path, ctx.Response.StatusCode()) }()

	if string(ctx.Method()) != r.method {
		ctx.Response.Header.Set("Allow", r.method)
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	r.serve(ctx)
}

func (h *Handler) handleAnalyze(ctx *fasthttp.RequestCtx) {
	resp, ok := h.analyze(ctx)
	if !ok {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleReport(ctx *fasthttp.RequestCtx) {
	resp, ok := h.analyze(ctx)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, resp); err != nil {
		h.logger.Error("report export failed", "analysis_id", resp.AnalysisMetadata.AnalysisID, "error", err)
		writeError(ctx, fasthttp.StatusInternalServerError, "Failed to build report")
		return
	}
	ctx.SetContentType(xlsxContentType)
	ctx.Response.Header.Set("Content-Disposition", `attachment; filename="rota-`+resp.AnalysisMetadata.AnalysisID+`.xlsx"`)
	ctx.SetBody(buf.Bytes())
}

func (h *Handler) analyze(ctx *fasthttp.RequestCtx) (*model.AnalysisResponse, bool) {
	var req model.AnalysisRequest
	if !decode(ctx, &req) {
		return nil, false
	}
	runCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()
	return h.engine.Process(runCtx, &req), true
}

func (h *Handler) handleFare(ctx *fasthttp.RequestCtx) {
	var req model.FareRequest
	if !decode(ctx, &req) {
		return
	}
	resp, err := h.engine.Fare(&req)
	switch {
	case errors.Is(err, engine.ErrInvalidPeriod):
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
	case errors.Is(err, planregistry.ErrNoCatalog):
		writeError(ctx, fasthttp.StatusServiceUnavailable, err.Error())
	case err != nil:
		writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
	default:
		writeJSON(ctx, fasthttp.StatusOK, resp)
	}
}

func (h *Handler) handleCrossMonth(ctx *fasthttp.RequestCtx) {
	var req model.CrossMonthRequest
	if !decode(ctx, &req) {
		return
	}
	if len(req.Months) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one month is required")
		return
	}
	resp, err := h.engine.CrossMonth(&req)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (h *Handler) handleDiff(ctx *fasthttp.RequestCtx) {
	var req model.DiffRequest
	if !decode(ctx, &req) {
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, model.DiffResponse{Patch: revision.Diff(req.From, req.To)})
}

func (h *Handler) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	_ = json.NewEncoder(ctx).Encode(v)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	writeJSON(ctx, status, model.ErrorResponse{
		Status:  status,
		Message: message,
	})
}
