package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/chunk"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/classify"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/handler"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/report"
	"github.com/redhat-ai-americas/xml-analysis-framework-sub001/internal/xmldoc"
)

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	res, err := s.orchestrator.Analyzer().Classify(data)
	if err != nil {
		var malformed *xmldoc.MalformedInputError
		switch {
		case errors.As(err, &malformed):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, classify.ErrUnclassified):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":          "unclassified document",
				"classification": res,
			})
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	res, rec, err := s.orchestrator.Analyzer().Analyze(data)
	if err != nil {
		var malformed *xmldoc.MalformedInputError
		var extractErr *handler.ExtractionError
		switch {
		case errors.As(err, &malformed):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, classify.ErrUnclassified):
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":          "unclassified document",
				"classification": res,
			})
		case errors.As(err, &extractErr):
			// Partial extraction is still useful to the caller.
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":          err.Error(),
				"classification": res,
				"summary":        extractErr.Partial,
			})
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"classification": res,
		"summary":        rec,
	})
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	chunks, diags, err := s.orchestrator.Analyzer().Chunk(data, s.chunkOptions(r))
	if err != nil {
		var malformed *xmldoc.MalformedInputError
		if errors.As(err, &malformed) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if chunks == nil {
		chunks = []chunk.Chunk{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"chunks":      chunks,
		"count":       len(chunks),
		"diagnostics": diags,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	data, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	analysis, err := s.orchestrator.Analyzer().Run(data, s.chunkOptions(r))
	if err != nil {
		var malformed *xmldoc.MalformedInputError
		if errors.As(err, &malformed) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	title := r.URL.Query().Get("title")
	if r.URL.Query().Get("format") == "html" {
		html, err := report.HTML(title, analysis)
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(html)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(report.Markdown(title, analysis)))
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		ID       string `json:"id"`
		Priority int    `json:"priority"`
	}
	var out []entry
	for _, d := range s.registry.All() {
		out = append(out, entry{ID: d.ID, Priority: d.Priority})
	}
	writeJSON(w, http.StatusOK, map[string]any{"formats": out})
}

// readDocument reads the raw XML request body within the upload limit.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "document exceeds max size", http.StatusRequestEntityTooLarge)
		} else {
			jsonError(w, "failed to read request body", http.StatusBadRequest)
		}
		return nil, false
	}
	if len(data) == 0 {
		jsonError(w, "empty request body", http.StatusBadRequest)
		return nil, false
	}
	return data, true
}

// chunkOptions applies per-request overrides to the configured chunking
// defaults.
func (s *Server) chunkOptions(r *http.Request) chunk.Options {
	opts := s.cfg.ChunkOptions()
	q := r.URL.Query()
	if v := q.Get("target_depth"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.TargetDepth = n
		}
	}
	if v := q.Get("min_chunk_chars"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MinChunkChars = n
		}
	}
	if v := q.Get("max_chunk_chars"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			opts.MaxChunkChars = n
		}
	}
	return opts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}
