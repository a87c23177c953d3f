package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/profile"
	"github.com/jonathan/career-guide/internal/queue"
	"github.com/jonathan/career-guide/internal/schemas"
	"github.com/jonathan/career-guide/internal/scoring"
	"github.com/jonathan/career-guide/internal/types"
)

// AsyncAnalysisRequest represents the request body for /analysis/async
type AsyncAnalysisRequest struct {
	UserID           string `json:"userId"`
	WriteBackMetrics bool   `json:"writeBackMetrics,omitempty"`
	StudyPlanFor     string `json:"studyPlanFor,omitempty"`
}

// AsyncAnalysisResponse represents the response for /analysis/async
type AsyncAnalysisResponse struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

// ---------------------------------------------------------------------
// Analysis Handlers
// ---------------------------------------------------------------------

func (s *Server) handleUserAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	opts := analysis.AnalyzeOptions{
		UseCachedScores:  queryBool(r, "cached_scores"),
		WriteBackMetrics: queryBool(r, "write_back"),
	}
	result, err := s.service.Analyze(r.Context(), userID, opts)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if result == nil {
		s.failure(w, r, profile.ErrInsufficientData)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeProfileRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err)
		return
	}

	result, err := s.service.AnalyzeProfile(r.Context(), req.Profile())
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if result == nil {
		s.failure(w, r, profile.ErrInsufficientData)
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleAnalyzeAsync(w http.ResponseWriter, r *http.Request) {
	if s.publisher == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Asynchronous analysis is not configured")
		return
	}

	var req AsyncAnalysisRequest
	if !s.decode(w, r, &req) {
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil || userID == uuid.Nil {
		s.failure(w, r, &ErrValidation{Field: "userId", Message: "must be a UUID"})
		return
	}

	msg := queue.Request{
		UserID:           userID,
		WriteBackMetrics: req.WriteBackMetrics,
		StudyPlanFor:     req.StudyPlanFor,
	}
	if err := s.publisher.Publish(msg); err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusAccepted, AsyncAnalysisResponse{UserID: userID.String(), Status: "queued"})
}

// ---------------------------------------------------------------------
// Score Handlers
// ---------------------------------------------------------------------

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	scores, err := s.service.ComputeScores(r.Context(), userID, queryBool(r, "write_back"))
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, scores)
}

func (s *Server) handleCachedScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	scores, err := s.service.CachedScores(r.Context(), userID)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, scores)
}

func (s *Server) handleResumeScore(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var resume types.Resume
	if err := json.Unmarshal(body, &resume); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := schemas.Validate(schemas.Resume, body); err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, scoring.ResumeScore(&resume))
}

// ---------------------------------------------------------------------
// Planning Handlers
// ---------------------------------------------------------------------

func (s *Server) handleStudyPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.StudyPlanRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err)
		return
	}

	plan, err := s.service.StudyPlan(r.Context(), userID, req.JobTitle)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, plan)
}

func (s *Server) handleJobPreference(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.JobPreferenceRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err)
		return
	}

	if err := s.service.SaveJobPreference(r.Context(), userID, req.JobTitle); err != nil {
		s.failure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		s.errorResponse(w, http.StatusNotImplemented, "Assistant is not configured")
		return
	}

	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.AssistantRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.failure(w, r, err)
		return
	}

	reply, err := s.assistant.Ask(r.Context(), userID, req.Question)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, reply)
}

// ---------------------------------------------------------------------
// Catalog Handlers
// ---------------------------------------------------------------------

func (s *Server) handleCatalogDemand(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Engine().Catalog().DemandSkills())
}

func (s *Server) handleCatalogRoles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Engine().Catalog().Roles())
}

func (s *Server) handleCatalogCourses(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.service.Engine().Catalog().Courses())
}

// ---------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------

// userID parses the {id} path value, writing a 400 response on failure.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	userID, err := uuid.Parse(idStr)
	if err != nil {
		s.failure(w, r, &ErrInvalidUserID{Value: idStr})
		return uuid.Nil, false
	}
	return userID, true
}

// decode reads a JSON body into v, writing a 400 response on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return false
	}
	s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// queryBool reports whether a query parameter is set to a true value.
func queryBool(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}
