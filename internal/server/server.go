// Package server exposes the optimizer over a small HTTP JSON API.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/optimizer"
	"go.uber.org/zap"
)

type handler struct {
	logger    *zap.Logger
	optimizer *optimizer.Optimizer
	maxBody   int64
	version   string
}

// NewHandler constructs the HTTP handler that serves the optimization API.
func NewHandler(logger *zap.Logger, tables blend.Tables, maxBody int64, version string) (http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opt, err := optimizer.New(logger, tables)
	if err != nil {
		return nil, err
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, optimizer: opt, maxBody: maxBody, version: trimmedVersion}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/optimize", h.handleOptimize)
	mux.HandleFunc("/api/version", h.handleVersion)
	return mux, nil
}

// optimizeRequest is the JSON request body. A null composition is preserved
// as nil so the combined operation can reject unknown vessel contents.
type optimizeRequest struct {
	Operation    string             `json:"operation"`
	Composition  map[string]float64 `json:"composition"`
	TargetWeight *float64           `json:"target_weight"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *handler) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var body optimizeRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	op, err := optimizer.ParseOperation(body.Operation)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	req := optimizer.Request{Operation: op, Target: body.TargetWeight}
	if body.Composition != nil {
		comp := make(blend.Composition, len(body.Composition))
		for name, mass := range body.Composition {
			e, err := blend.ParseElement(name)
			if err != nil {
				h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			if mass < 0 {
				h.writeJSON(w, http.StatusBadRequest,
					errorResponse{Error: fmt.Sprintf("element %s has negative mass %v", e, mass)})
				return
			}
			comp[e] = mass
		}
		req.Initial = comp
	}

	result, err := h.optimizer.Run(req)
	if err != nil {
		var verr *optimizer.ValidationError
		if errors.As(err, &verr) {
			h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
			return
		}
		h.logger.Error("optimization failed",
			zap.String("op", "server.handleOptimize"),
			zap.Error(err),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "optimization failed"})
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write response",
			zap.String("op", "server.writeJSON"),
			zap.Error(err),
		)
	}
}
