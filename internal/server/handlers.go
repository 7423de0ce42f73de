package server

import (
	"net/http"

	"github.com/jonathan/skilltree-advisor/internal/types"
)

// ---------------------------------------------------------------------
// Student Handlers
// ---------------------------------------------------------------------

func (s *Server) handleGetCareerPaths(w http.ResponseWriter, r *http.Request) {
	recs, err := s.service.GetCareerPaths(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, recs)
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var sub types.QuizSubmission
	if err := decodeJSON(w, r, &sub); err != nil {
		s.writeError(w, r, err)
		return
	}

	if _, err := s.service.SubmitQuiz(r.Context(), r.PathValue("id"), &sub); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleQuizStatus(w http.ResponseWriter, r *http.Request) {
	hasQuiz, err := s.service.QuizStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"hasQuiz": hasQuiz})
}

// ---------------------------------------------------------------------
// Quiz Result Handlers
// ---------------------------------------------------------------------

func (s *Server) handleSaveQuizResult(w http.ResponseWriter, r *http.Request) {
	var req types.SaveQuizResultRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.service.SaveQuizResult(r.Context(), r.PathValue("id"), &req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, result)
}

func (s *Server) handleListQuizResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.service.ListQuizResults(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, results)
}

func (s *Server) handleGetQuizResult(w http.ResponseWriter, r *http.Request) {
	result, err := s.service.GetQuizResult(r.Context(), r.PathValue("id"), r.PathValue("result_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) handleDeleteQuizResult(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteQuizResult(r.Context(), r.PathValue("id"), r.PathValue("result_id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

// ---------------------------------------------------------------------
// Skill Tree Handlers
// ---------------------------------------------------------------------

func (s *Server) handleListSkillTrees(w http.ResponseWriter, r *http.Request) {
	paths, err := s.service.ListCareerPaths(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, paths)
}

func (s *Server) handleGetSkillTree(w http.ResponseWriter, r *http.Request) {
	path, err := s.service.GetCareerPath(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, path)
}
