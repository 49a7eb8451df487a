package server

import (
	"encoding/json"
	"net/http"

	"github.com/matzehuels/sortstage/pkg/cache"
	"github.com/matzehuels/sortstage/pkg/engine"
	"github.com/matzehuels/sortstage/pkg/errors"
	"github.com/matzehuels/sortstage/pkg/sequence"
	"github.com/matzehuels/sortstage/pkg/trace"
)

// traceRequest is the POST /trace body. Either values or size must be set;
// explicit values win.
type traceRequest struct {
	Algorithm string `json:"algorithm"`
	Values    []int  `json:"values,omitempty"`
	Size      int    `json:"size,omitempty"`
	MaxValue  int    `json:"max_value,omitempty"`
	Seed      uint64 `json:"seed,omitempty"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	type algorithmInfo struct {
		Name   string `json:"name"`
		Stable bool   `json:"stable"`
	}
	algs := engine.Algorithms()
	out := make([]algorithmInfo, len(algs))
	for i, a := range algs {
		out[i] = algorithmInfo{Name: string(a), Stable: a.Stable()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrace(w http.ResponseWriter, r *http.Request) {
	var req traceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid request body: %v", err))
		return
	}

	alg, err := engine.ParseAlgorithm(req.Algorithm)
	if err != nil {
		writeError(w, err)
		return
	}

	values := req.Values
	if len(values) == 0 {
		if req.MaxValue == 0 {
			req.MaxValue = 100
		}
		seq, err := sequence.Generate(req.Size, req.MaxValue, req.Seed)
		if err != nil {
			writeError(w, err)
			return
		}
		values = seq.Values()
	} else if err := errors.ValidateValues(values); err != nil {
		writeError(w, err)
		return
	}

	ctx := r.Context()
	key := cache.TraceKey(string(alg), values)
	if data, hit, err := s.cache.Get(ctx, key); err == nil && hit {
		if cached, err := trace.Unmarshal(data); err == nil {
			s.logger.Debug("trace cache hit", "algorithm", alg, "size", len(values))
			writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	t, err := trace.ComputeWith(ctx, s.runner, values, alg)
	if err != nil {
		writeError(w, err)
		return
	}

	if data, err := trace.Marshal(t); err == nil {
		_ = s.cache.Set(ctx, key, data, cache.TTLTrace)
	}

	writeJSON(w, http.StatusOK, t)
}

// writeError maps engine error codes onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAlgorithm,
		errors.ErrCodeInvalidSpeed, errors.ErrCodeEmptySequence,
		errors.ErrCodeInvalidOperation:
		status = http.StatusBadRequest
	case errors.ErrCodeAlreadyRunning:
		status = http.StatusConflict
	case errors.ErrCodeNotFound:
		status = http.StatusNotFound
	}

	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
