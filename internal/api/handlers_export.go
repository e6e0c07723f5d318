package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/gabarito/layout"
)

func (s *Server) handleEcoModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"modes": s.renderer.Modes(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeExam(w, r)
	if !ok {
		return
	}
	issues := layout.Validate(doc)
	if issues == nil {
		issues = []layout.Issue{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeExam(w, r)
	if !ok {
		return
	}
	if !s.checkSize(w, doc) {
		return
	}
	if v := r.URL.Query().Get("includeAnswerKey"); v != "" {
		key, err := strconv.ParseBool(v)
		if err != nil {
			jsonError(w, "includeAnswerKey must be true or false", http.StatusBadRequest)
			return
		}
		doc.IncludeAnswerKey = key
	}

	renderID := uuid.NewString()
	res, err := s.renderer.Render(doc, r.URL.Query().Get("ecoMode"))
	if err != nil {
		s.renderFailed(w, r, renderID, err)
		return
	}
	s.log.Info("exam exported",
		"request_id", middleware.GetReqID(r.Context()),
		"render_id", renderID,
		"mode", res.Mode,
		"questions", len(doc.Questions),
		"pages", res.Pages,
		"bytes", res.Length,
	)
	writePDF(w, "exam-"+renderID+".pdf", res)
}

func (s *Server) handleAnswerKey(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.decodeExam(w, r)
	if !ok {
		return
	}
	if !s.checkSize(w, doc) {
		return
	}

	renderID := uuid.NewString()
	res, err := s.renderer.RenderAnswerSheet(doc, r.URL.Query().Get("ecoMode"))
	if err != nil {
		s.renderFailed(w, r, renderID, err)
		return
	}
	s.log.Info("answer key exported",
		"request_id", middleware.GetReqID(r.Context()),
		"render_id", renderID,
		"mode", res.Mode,
		"pages", res.Pages,
	)
	writePDF(w, "answer-key-"+renderID+".pdf", res)
}

// decodeExam reads the JSON exam body, answering the request itself on failure.
func (s *Server) decodeExam(w http.ResponseWriter, r *http.Request) (layout.Document, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var doc layout.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("request body exceeds max size (%d bytes)", s.cfg.MaxBodyBytes), http.StatusRequestEntityTooLarge)
			return layout.Document{}, false
		}
		jsonError(w, "invalid exam: "+err.Error(), http.StatusBadRequest)
		return layout.Document{}, false
	}
	return doc, true
}

func (s *Server) checkSize(w http.ResponseWriter, doc layout.Document) bool {
	if len(doc.Questions) == 0 {
		jsonError(w, "nothing to export: the exam has no questions", http.StatusUnprocessableEntity)
		return false
	}
	if len(doc.Questions) > s.cfg.MaxQuestions {
		jsonError(w, fmt.Sprintf("too many questions (%d, max %d)", len(doc.Questions), s.cfg.MaxQuestions), http.StatusRequestEntityTooLarge)
		return false
	}
	return true
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, renderID string, err error) {
	if errors.Is(err, layout.ErrNoQuestions) {
		jsonError(w, "nothing to export: the exam has no questions", http.StatusUnprocessableEntity)
		return
	}
	s.log.Error("render failed",
		"request_id", middleware.GetReqID(r.Context()),
		"render_id", renderID,
		"error", err,
	)
	jsonError(w, "failed to generate PDF", http.StatusInternalServerError)
}

func writePDF(w http.ResponseWriter, filename string, res layout.RenderResult) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sanitizeFilename(filename)))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Bytes)))
	w.Header().Set("X-Page-Count", strconv.Itoa(res.Pages))
	w.Header().Set("X-Eco-Mode", res.Mode)
	w.Write(res.Bytes)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "\"", "_")
	if name == "" {
		name = "unnamed.pdf"
	}
	return name
}
