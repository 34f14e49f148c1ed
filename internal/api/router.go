// Package api exposes the HTTP surface: auth, submissions, country
// data, stored audio, and the live submission feed.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lingomap/lingomap/internal/geo"
	"github.com/lingomap/lingomap/internal/logging"
	"github.com/lingomap/lingomap/internal/services"
	"github.com/lingomap/lingomap/internal/storage"
)

type Router struct {
	auth      *services.AuthService
	subs      *services.SubmissionService
	blobs     storage.BlobStore
	countries []geo.Country
	feed      *Feed
	log       logging.Logger
}

func NewRouter(auth *services.AuthService, subs *services.SubmissionService, blobs storage.BlobStore, countries []geo.Country, log logging.Logger) *Router {
	rt := &Router{
		auth:      auth,
		subs:      subs,
		blobs:     blobs,
		countries: countries,
		feed:      NewFeed(subs.List, log),
		log:       log,
	}
	subs.Publish = rt.feed.Publish
	return rt
}

func (rt *Router) Register(r *mux.Router) {
	r.HandleFunc("/api/signup", rt.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/signin", rt.handleSignin).Methods(http.MethodPost)
	r.HandleFunc("/api/submissions", rt.handleCreateSubmission).Methods(http.MethodPost)
	r.HandleFunc("/api/submissions", rt.handleListSubmissions).Methods(http.MethodGet)
	r.HandleFunc("/api/countries", rt.handleCountries).Methods(http.MethodGet)
	r.HandleFunc("/api/audio/{key:.+}", rt.handleAudio).Methods(http.MethodGet)
	r.HandleFunc("/ws/submissions", rt.feed.ServeHTTP).Methods(http.MethodGet)
}

// Close stops the live feed.
func (rt *Router) Close() {
	rt.feed.Close()
}
