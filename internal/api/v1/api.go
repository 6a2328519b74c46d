// Package v1 implements the native REST API.
package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmunix/arrsync/internal/jobs"
	"github.com/vmunix/arrsync/internal/library"
)

// Server is the v1 API server.
type Server struct {
	deps ServerDeps
}

// NewWithDeps creates a new v1 API server with explicit dependencies.
func NewWithDeps(deps ServerDeps) (*Server, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingDependency, err)
	}
	return &Server{deps: deps}, nil
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Jobs
	mux.HandleFunc("GET /api/v1/jobs", s.listJobs)
	mux.HandleFunc("GET /api/v1/jobs/{id}", s.getJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/run", s.runJob)
	mux.HandleFunc("POST /api/v1/jobs/{id}/cancel", s.cancelJob)

	// Titles
	mux.HandleFunc("GET /api/v1/titles", s.listTitles)
	mux.HandleFunc("GET /api/v1/titles/{id}", s.getTitle)

	// Events
	mux.HandleFunc("GET /api/v1/events", s.requireEventLog(s.listEvents))

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
	mux.HandleFunc("GET /api/v1/verify", s.verify)
	mux.Handle("GET /metrics", promhttp.Handler())
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts the integer {id} from the URL path.
func pathID(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	if idStr == "" {
		return 0, errors.New("missing path parameter: id")
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

const maxLimit = 1000

// pagination reads limit and offset, clamping limit to maxLimit.
func pagination(r *http.Request, defaultLimit int) (limit, offset int, ok bool) {
	limit = queryInt(r, "limit", defaultLimit)
	offset = queryInt(r, "offset", 0)
	if limit < 0 || offset < 0 {
		return 0, 0, false
	}
	return min(limit, maxLimit), offset, true
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listJobsResponse{Items: s.deps.Jobs.List()})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	info, err := s.deps.Jobs.Get(r.PathValue("id"))
	if err != nil {
		writeJobError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) runJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Jobs.Run(id); err != nil {
		writeJobError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, runJobResponse{Job: id, Message: "job started"})
}

func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.deps.Jobs.Cancel(id); err != nil {
		writeJobError(w, err)
		return
	}
	info, err := s.deps.Jobs.Get(id)
	if err != nil {
		writeJobError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func writeJobError(w http.ResponseWriter, err error) {
	if errors.Is(err, jobs.ErrUnknownJob) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
		return
	}
	writeError(w, http.StatusInternalServerError, "JOB_ERROR", err.Error())
}

func (s *Server) listTitles(w http.ResponseWriter, r *http.Request) {
	limit, offset, ok := pagination(r, 50)
	if !ok {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	filter := library.TitleFilter{Limit: limit, Offset: offset}

	if kindStr := queryString(r, "kind"); kindStr != nil {
		k := library.Kind(*kindStr)
		if k != library.KindMovie && k != library.KindSeries {
			writeError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be movie or series")
			return
		}
		filter.Kind = &k
	}
	if statusStr := queryString(r, "status"); statusStr != nil {
		st := library.Status(*statusStr)
		if !st.Valid() {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", fmt.Sprintf("unknown status %q", *statusStr))
			return
		}
		filter.Status = &st
	}

	titles, total, err := s.deps.Titles.ListTitles(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listTitlesResponse{
		Items:  make([]titleResponse, len(titles)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, t := range titles {
		resp.Items[i] = titleToResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getTitle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	t, err := s.deps.Titles.GetTitle(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Title not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, titleToResponse(t))
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	_, total, err := s.deps.Titles.ListTitles(library.TitleFilter{Limit: 1})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := statusResponse{
		Status:  "ok",
		Version: s.deps.Version,
		Features: featuresResponse{
			UHDMovies: s.deps.Features.UHDMovies,
			UHDSeries: s.deps.Features.UHDSeries,
		},
		RunningJobs: []string{},
		Titles:      total,
	}
	for _, job := range s.deps.Jobs.List() {
		if job.Status.Running {
			resp.RunningJobs = append(resp.RunningJobs, job.ID)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
