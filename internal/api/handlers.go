package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/lingomap/lingomap/internal/services"
)

const maxUploadSize = 10 << 20 // 10 MB

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeServiceError(w http.ResponseWriter, err error) {
	writeJSON(w, services.HTTPStatus(err), map[string]string{"message": services.PublicMessage(err)})
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/signup
func (rt *Router) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if err := rt.auth.Signup(req.Email, req.Password); err != nil {
		rt.log.Warn(r.Context(), "signup failed", "err", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

// POST /api/signin
func (rt *Router) handleSignin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	res, err := rt.auth.Signin(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": res.User, "token": res.Token})
}

// POST /api/submissions — multipart fields: phrase, language, country,
// countryCode, region, lat, lng, timestamp, audio?
func (rt *Router) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid multipart body"})
		return
	}
	in := &services.SubmissionInput{
		Phrase:      r.FormValue("phrase"),
		Language:    r.FormValue("language"),
		Country:     r.FormValue("country"),
		CountryCode: r.FormValue("countryCode"),
		Region:      r.FormValue("region"),
	}
	in.Lat, _ = strconv.ParseFloat(r.FormValue("lat"), 64)
	in.Lng, _ = strconv.ParseFloat(r.FormValue("lng"), 64)
	if ts, err := time.Parse(time.RFC3339, r.FormValue("timestamp")); err == nil {
		in.Timestamp = ts
	}

	file, _, err := r.FormFile("audio")
	switch err {
	case nil:
		defer file.Close()
		in.Audio = file
	case http.ErrMissingFile:
		// submission without a recording
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid audio field"})
		return
	}

	sub, err := rt.subs.Create(r.Context(), in)
	if err != nil {
		rt.log.Warn(r.Context(), "submission rejected", "err", err)
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// GET /api/submissions
func (rt *Router) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := rt.subs.List()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if subs == nil {
		subs = []*services.Submission{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// GET /api/countries
func (rt *Router) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rt.countries)
}

// GET /api/audio/{key}
func (rt *Router) handleAudio(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	rc, err := rt.blobs.Open(r.Context(), key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "recording not found"})
		return
	}
	defer rc.Close()
	w.Header().Set("Content-Type", "audio/wav")
	if _, err := io.Copy(w, rc); err != nil {
		rt.log.Warn(r.Context(), "stream audio", "key", key, "err", err)
	}
}
