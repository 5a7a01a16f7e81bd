package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"property-finder/ingest"
	"property-finder/models"
	"property-finder/session"
)

// handleUpload ingests a CSV export and opens a fresh session for it.
// A file that cannot be parsed at all is rejected with 422 and no session
// is created — there is never a partially loaded dataset.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}

	id, err := s.store.Open(ds)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("[server] Session %s opened with %d listings", id, len(ds.Listings))
	writeJSON(w, http.StatusCreated, uploadResponse{
		SessionID: id,
		Count:     len(ds.Listings),
		Stats:     statsView(ds.Stats),
	})
}

// handleReplace re-uploads into an existing session, replacing its dataset
// wholesale.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.store.Get(id); !ok {
		s.sessionNotFound(w, id)
		return
	}

	ds, ok := s.ingestUpload(w, r)
	if !ok {
		return
	}

	if err := s.store.Put(id, ds); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	s.logger.Info("[server] Session %s replaced with %d listings", id, len(ds.Listings))
	writeJSON(w, http.StatusOK, uploadResponse{
		SessionID: id,
		Count:     len(ds.Listings),
		Stats:     statsView(ds.Stats),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Delete(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, ok := s.store.Get(id)
	if !ok {
		s.sessionNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, statsView(ds.Stats))
}

// handleListings runs one filter/sort query over the session's dataset.
// Zero matches is a normal 200 with count 0 — the UI renders its own
// "no homes found" message off that.
func (s *Server) handleListings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, ok := s.store.Get(id)
	if !ok {
		s.sessionNotFound(w, id)
		return
	}

	spec, key := parseQuery(r.URL.Query())
	result := s.engine.Query(ds, spec, key)

	writeJSON(w, http.StatusOK, resultView(result))
}

// handleContact builds the agent-contact mailto link for one listing,
// looked up by MLS number within the session's dataset.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, ok := s.store.Get(id)
	if !ok {
		s.sessionNotFound(w, id)
		return
	}

	mls := chi.URLParam(r, "mls")
	l, ok := findByListingID(ds, mls)
	if !ok {
		writeJSON(w, http.StatusNotFound,
			errorResponse{Error: fmt.Sprintf("no listing with MLS# %s", mls)})
		return
	}

	writeJSON(w, http.StatusOK, contactResponse{
		Mailto:  contactLink(s.cfg.ContactEmail, l),
		Address: l.Address,
		City:    l.City,
	})
}

// ingestUpload reads the multipart "file" field through the CSV ingester
// and normalizer. On failure it writes the error response itself and
// returns ok=false.
func (s *Server) ingestUpload(w http.ResponseWriter, r *http.Request) (*models.Dataset, bool) {
	maxBytes := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, _, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("upload exceeds the %dMB limit", s.cfg.MaxUploadMB)})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest,
			errorResponse{Error: "missing CSV upload in form field \"file\""})
		return nil, false
	}
	defer file.Close()

	records, err := ingest.ReadCSV(file)
	if err != nil {
		var loadErr *ingest.LoadError
		if errors.As(err, &loadErr) {
			s.logger.Warn("[server] Rejected upload: %v", loadErr)
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: loadErr.Error()})
		} else {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return nil, false
	}

	return s.normalizer.Normalize(records), true
}

// sessionNotFound is the "no file loaded yet" state, distinct from both a
// failed parse (422 at upload time) and an empty query result (200).
func (s *Server) sessionNotFound(w http.ResponseWriter, id string) {
	msg := fmt.Sprintf("no dataset loaded for session %q", id)
	if id == session.DefaultID {
		msg = "no dataset loaded; upload a CSV or set LISTINGS_CSV_PATH"
	}
	writeJSON(w, http.StatusNotFound, errorResponse{Error: msg})
}

func findByListingID(ds *models.Dataset, mls string) (*models.Listing, bool) {
	for i := range ds.Listings {
		l := &ds.Listings[i]
		if l.ListingID.Present && strings.EqualFold(l.ListingID.Value, mls) {
			return l, true
		}
	}
	return nil, false
}

// contactLink renders the mailto URL for the listing's inquiry button.
func contactLink(email string, l *models.Listing) string {
	body := fmt.Sprintf("I am interested in %s, %s", l.Address, l.City)
	if l.ListingID.Present && l.ListingID.Value != "" {
		body += fmt.Sprintf(" (MLS# %s)", l.ListingID.Value)
	}
	body += "."

	q := url.Values{}
	q.Set("subject", "Inquiry: "+l.Address)
	q.Set("body", body)

	// url.Values encodes spaces as "+", which mail clients do not decode.
	return "mailto:" + email + "?" + strings.ReplaceAll(q.Encode(), "+", "%20")
}
