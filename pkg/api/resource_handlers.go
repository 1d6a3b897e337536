package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/platinummonkey/warden/pkg/directory"
	"github.com/platinummonkey/warden/pkg/httputil"
)

// registerResourceRoutes wires the five uniform CRUD routes for a resource
// onto the versioned subrouter, each behind its configured guard.
func (s *Server) registerResourceRoutes(router *mux.Router, resource string) {
	base := "/" + resource
	item := base + "/{id}"

	router.Handle(base, s.guarded("GET", base, s.listResource(resource))).Methods("GET")
	router.Handle(base, s.guarded("POST", base, s.createResource(resource))).Methods("POST")
	router.Handle(item, s.guarded("GET", item, s.getResource(resource))).Methods("GET")
	router.Handle(item, s.guarded("PUT", item, s.updateResource(resource))).Methods("PUT")
	router.Handle(item, s.guarded("DELETE", item, s.deleteResource(resource))).Methods("DELETE")
}

func (s *Server) listResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := directory.ParseListQuery(resource, r.URL.Query())
		if err != nil {
			httputil.WriteInternalError(w, err)
			return
		}

		docs, total, err := s.directory.List(r.Context(), resource, q)
		if err != nil {
			s.writeResourceError(w, r, resource, err)
			return
		}
		httputil.WritePage(w, docs, total, q.Page, q.Limit)
	}
}

func (s *Server) createResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := httputil.ReadBody(r)
		if err != nil {
			httputil.WriteValidationError(w, "invalid request body")
			return
		}

		doc, err := s.directory.Create(r.Context(), resource, body)
		if err != nil {
			s.writeResourceError(w, r, resource, err)
			return
		}
		httputil.WriteData(w, http.StatusOK, doc)
	}
}

func (s *Server) getResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.directory.Get(r.Context(), resource, httputil.PathVar(r, "id"))
		if err != nil {
			s.writeResourceError(w, r, resource, err)
			return
		}
		httputil.WriteData(w, http.StatusOK, doc)
	}
}

func (s *Server) updateResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := httputil.ReadBody(r)
		if err != nil {
			httputil.WriteValidationError(w, "invalid request body")
			return
		}

		doc, err := s.directory.Update(r.Context(), resource, httputil.PathVar(r, "id"), body)
		if err != nil {
			s.writeResourceError(w, r, resource, err)
			return
		}
		httputil.WriteData(w, http.StatusOK, doc)
	}
}

func (s *Server) deleteResource(resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := s.directory.Delete(r.Context(), resource, httputil.PathVar(r, "id"))
		if err != nil {
			s.writeResourceError(w, r, resource, err)
			return
		}
		httputil.WriteData(w, http.StatusOK, doc)
	}
}

// writeResourceError maps directory errors onto envelope responses:
// missing documents to 404, validation failures to 400, everything else
// to a logged 500.
func (s *Server) writeResourceError(w http.ResponseWriter, r *http.Request, resource string, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		httputil.WriteNotFound(w)
	case directory.IsValidation(err):
		httputil.WriteValidationError(w, err.Error())
	default:
		s.logger.WithError(err).WithField("resource", resource).Error("directory operation failed")
		httputil.WriteInternalError(w, err)
	}
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, http.StatusNotFound, "Not found")
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
}
