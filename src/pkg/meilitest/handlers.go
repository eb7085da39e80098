package meilitest

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"meilikit/src/pkg/httputil"
	"meilikit/src/pkg/loggingutil"
	"meilikit/src/pkg/meili"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	loggingutil.Get(r.Context()).Debug("Health check request", "remote_addr", r.RemoteAddr)
	httputil.WriteNoContent(w)
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, s.store.List(), http.StatusOK)
}

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	var req meili.CreateIndexRequest
	if err := httputil.ParseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, newAPIError(http.StatusBadRequest, meili.CodeBadRequest, err.Error()))
		return
	}

	index, err := s.store.Create(req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	loggingutil.Get(r.Context()).Info("Index created", "uid", index.UID)
	httputil.WriteJSON(r.Context(), w, index, http.StatusCreated)
}

func (s *Server) handleShowIndex(w http.ResponseWriter, r *http.Request) {
	index, err := s.store.Get(indexUID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(r.Context(), w, index, http.StatusOK)
}

func (s *Server) handleUpdateIndex(w http.ResponseWriter, r *http.Request) {
	var req meili.UpdateIndexRequest
	if err := httputil.ParseJSONRequest(r, &req); err != nil {
		s.writeError(w, r, newAPIError(http.StatusBadRequest, meili.CodeBadRequest, err.Error()))
		return
	}

	index, err := s.store.Update(indexUID(r), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(r.Context(), w, index, http.StatusOK)
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	uid := indexUID(r)
	if err := s.store.Delete(uid); err != nil {
		s.fail(w, r, err)
		return
	}

	loggingutil.Get(r.Context()).Info("Index deleted", "uid", uid)
	httputil.WriteNoContent(w)
}

func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.IndexStats(indexUID(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	httputil.WriteJSON(r.Context(), w, stats, http.StatusOK)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, s.version, http.StatusOK)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, s.store.Stats(), http.StatusOK)
}

func (s *Server) handleSysInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, s.sysInfo(), http.StatusOK)
}

func (s *Server) handlePrettySysInfo(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, prettySysInfo(s.sysInfo()), http.StatusOK)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(r.Context(), w, s.keys, http.StatusOK)
}

// fail writes err as an error body; anything that is not an *apiError is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiError
	if !errors.As(err, &apiErr) {
		loggingutil.Get(r.Context()).Error("Unexpected handler error", "error", err)
		apiErr = newAPIError(http.StatusInternalServerError, meili.CodeInternal, err.Error())
	}
	s.writeError(w, r, apiErr)
}

func indexUID(r *http.Request) string {
	uid := chi.URLParam(r, "uid")
	if unescaped, err := url.PathUnescape(uid); err == nil {
		return unescaped
	}
	return uid
}
