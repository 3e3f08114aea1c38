// Package api serves the member store over HTTP.
package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pluqqy/memberdesk/pkg/store"
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	store        store.Store
	logger       *log.Logger
	defaultLimit int
	now          func() time.Time
}

// NewServer returns a server over s. A nil logger disables request logging.
func NewServer(s store.Store, logger *log.Logger, defaultLimit int) *Server {
	return &Server{
		store:        s,
		logger:       logger,
		defaultLimit: defaultLimit,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Router builds the route table
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	if s.logger != nil {
		r.Use(s.logRequests)
	}

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	r.HandleFunc("/members", s.listMembers).Methods("GET")
	r.HandleFunc("/members", s.createMember).Methods("POST")
	r.HandleFunc("/members/{id}", s.getMember).Methods("GET")
	r.HandleFunc("/members/{id}", s.patchMember).Methods("PATCH")
	r.HandleFunc("/members/{id}", s.deleteMember).Methods("DELETE")
	r.HandleFunc("/members/{id}/password/check", s.checkPassword).Methods("POST")

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Printf("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start).Round(time.Microsecond))
	})
}
