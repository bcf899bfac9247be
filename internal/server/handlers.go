package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/matzehuels/refit/pkg/buildinfo"
	errs "github.com/matzehuels/refit/pkg/errors"
	refitio "github.com/matzehuels/refit/pkg/io"
	"github.com/matzehuels/refit/pkg/remap"
)

type errorBody struct {
	Code    errs.Code `json:"code"`
	Message string    `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type batchRequest struct {
	Requests []remap.Input `json:"requests"`
}

type batchItem struct {
	Index    int           `json:"index"`
	Result   *remap.Result `json:"result,omitempty"`
	CacheHit bool          `json:"cacheHit,omitempty"`
	Error    *errorBody    `json:"error,omitempty"`
}

type batchResponse struct {
	Items []batchItem `json:"items"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleRemap(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	in, err := refitio.DecodeRequest(r.Body, requestFormat(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, hit, err := s.runner.Remap(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if res == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("X-Cache", cacheHeader(hit))
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req batchRequest
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInvalidRequest, err, "decode batch"))
		return
	}
	if len(req.Requests) > maxBatchSize {
		s.writeError(w, errs.New(errs.ErrCodeInvalidRequest,
			"batch holds %d requests, limit is %d", len(req.Requests), maxBatchSize))
		return
	}

	items := s.runner.RemapBatch(r.Context(), req.Requests, s.BatchLimit)
	resp := batchResponse{Items: make([]batchItem, len(items))}
	for i, it := range items {
		out := batchItem{Index: it.Index, Result: it.Result, CacheHit: it.CacheHit}
		if it.Err != nil {
			out.Error = &errorBody{Code: codeOf(it.Err), Message: errs.UserMessage(it.Err)}
		}
		resp.Items[i] = out
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// writeError maps err to a status code. Errors caused by the request are
// 422; anything else is a 500 and is logged.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    codeOf(err),
		Message: errs.UserMessage(err),
	}})
}

func statusFor(err error) int {
	if errs.IsInputError(err) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func codeOf(err error) errs.Code {
	if code := errs.GetCode(err); code != "" {
		return code
	}
	return errs.ErrCodeInternal
}

func requestFormat(r *http.Request) refitio.Format {
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "yaml") {
		return refitio.FormatYAML
	}
	return refitio.FormatJSON
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// writeJSON encodes v before committing status, so a value that cannot be
// encoded is answered with a 500 instead of an empty body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Error("encode response", "err", err)
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorResponse{Error: errorBody{
			Code:    errs.ErrCodeInternal,
			Message: "response could not be encoded",
		}})
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Debug("write response", "err", err)
	}
}
