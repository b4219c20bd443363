package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	service "github.com/okian/kitcheck/internal/app"
	"github.com/okian/kitcheck/pkg/logger"
)

// AnalyzeHandler handles analysis requests.
type AnalyzeHandler struct {
	analyzer     Analyzer
	maxBodyBytes int64
	logger       logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(analyzer Analyzer, maxBodyBytes int64, l logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{analyzer: analyzer, maxBodyBytes: maxBodyBytes, logger: l}
}

// HandleAnalyze handles POST /analyze requests.
func (h *AnalyzeHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.analyze"
	if r.Method != http.MethodPost {
		writeError(w, http.StatusNotFound, msgRouteNotFound)
		return
	}

	req, err := h.decode(w, r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		h.logger.Debug(r.Context(), "rejected analysis payload",
			logger.String("op", op),
			logger.Error(err),
		)
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	report := h.analyzer.Analyze(r.Context(), req)
	if report.Status == service.StatusError {
		writeError(w, http.StatusBadRequest, report.Error)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// decode reads the body as an AnalyzeRequest. An empty body is an empty request.
func (h *AnalyzeHandler) decode(w http.ResponseWriter, r *http.Request) (service.AnalyzeRequest, error) {
	var req service.AnalyzeRequest
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return req, nil
}
