package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/heapviz/heapviz/pkg/errors"
	"github.com/heapviz/heapviz/pkg/heap"
	"github.com/heapviz/heapviz/pkg/pipeline"
	"github.com/heapviz/heapviz/pkg/render"
	"github.com/heapviz/heapviz/pkg/report"
)

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	Prop    json.RawMessage `json:"prop"`
	Formats []string        `json:"formats,omitempty"`
	Banner  bool            `json:"banner,omitempty"`
	Refresh bool            `json:"refresh,omitempty"`
}

// diffRequest is the body of POST /api/diff.
type diffRequest struct {
	Pre     json.RawMessage `json:"pre"`
	Post    json.RawMessage `json:"post"`
	Formats []string        `json:"formats,omitempty"`
	Banner  bool            `json:"banner,omitempty"`
}

// batchRequest is the body of POST /api/batch.
type batchRequest struct {
	Props   []json.RawMessage `json:"props"`
	Source  string            `json:"source,omitempty"`
	Formats []string          `json:"formats,omitempty"`
	Banner  bool              `json:"banner,omitempty"`
}

// renderResponse is one rendered proposition. Artifacts are base64 in JSON.
type renderResponse struct {
	Label     string            `json:"label"`
	PropHash  string            `json:"prop_hash"`
	NodeCount int               `json:"node_count"`
	EdgeCount int               `json:"edge_count"`
	CacheHit  bool              `json:"cache_hit"`
	Artifacts map[string][]byte `json:"artifacts"`
}

func toRenderResponse(res *pipeline.Result) renderResponse {
	return renderResponse{
		Label:     res.Label,
		PropHash:  res.PropHash,
		NodeCount: res.Stats.NodeCount,
		EdgeCount: res.Stats.EdgeCount,
		CacheHit:  res.CacheInfo.Hit,
		Artifacts: res.Artifacts,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidHeap, "decode request: %v", err))
		return
	}

	p, err := decodeProp(req.Prop)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.runner.Render(r.Context(), p, pipeline.Options{
		Formats: req.Formats,
		Banner:  req.Banner,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRenderResponse(res))
}

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	var req diffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidHeap, "decode request: %v", err))
		return
	}

	pre, err := decodeProp(req.Pre)
	if err != nil {
		s.writeError(w, err)
		return
	}
	post, err := decodeProp(req.Post)
	if err != nil {
		s.writeError(w, err)
		return
	}

	diff, err := s.runner.RenderDiff(r.Context(), pre, post, pipeline.Options{
		Formats: req.Formats,
		Banner:  req.Banner,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]renderResponse{
		"pre":  toRenderResponse(diff.Pre),
		"post": toRenderResponse(diff.Post),
	})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidHeap, "decode request: %v", err))
		return
	}
	if len(req.Props) == 0 {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeInvalidHeap, "batch requires at least one proposition"))
		return
	}

	props := make([]*heap.Prop, 0, len(req.Props))
	for _, raw := range req.Props {
		p, err := decodeProp(raw)
		if err != nil {
			s.writeError(w, err)
			return
		}
		props = append(props, p)
	}

	batch, err := s.runner.RenderBatch(r.Context(), props, pipeline.Options{
		Formats: req.Formats,
		Banner:  req.Banner,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	rep := report.New(req.Source, batch)
	if err := s.reports.Put(r.Context(), rep); err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "store report"))
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	const listLimit = 50
	reports, err := s.reports.List(r.Context(), listLimit)
	if err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "list reports"))
		return
	}
	if reports == nil {
		reports = []*report.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rep, err := s.reports.Get(r.Context(), id)
	if errors.Is(err, report.ErrNotFound) {
		s.writeError(w, pkgerrors.New(pkgerrors.ErrCodeReportNotFound, "report %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "get report"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.reports.Delete(r.Context(), id); err != nil {
		s.writeError(w, pkgerrors.Wrap(pkgerrors.ErrCodeInternal, err, "delete report"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeProp parses one proposition from raw JSON.
func decodeProp(raw json.RawMessage) (*heap.Prop, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.ErrCodeInvalidHeap, "proposition is required")
	}
	p, err := heap.ReadProp(bytes.NewReader(raw))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.ErrCodeInvalidHeap, err, "parse proposition")
	}
	return p, nil
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := pkgerrors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case pkgerrors.ErrCodeInvalidHeap, pkgerrors.ErrCodeInvalidFormat,
		pkgerrors.ErrCodeInvalidLabel, pkgerrors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case pkgerrors.ErrCodeNotFound, pkgerrors.ErrCodeFileNotFound, pkgerrors.ErrCodeReportNotFound:
		status = http.StatusNotFound
	case pkgerrors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	default:
		// Render failures on user-supplied heaps are client errors.
		if isRenderError(err) {
			status = http.StatusUnprocessableEntity
			code = pkgerrors.ErrCodeRenderInconsistency
		}
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(code),
		Message: pkgerrors.UserMessage(err),
	})
}

func isRenderError(err error) bool {
	return errors.Is(err, render.ErrTooManyCandidates) || errors.Is(err, render.ErrUnresolvedAddress)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
