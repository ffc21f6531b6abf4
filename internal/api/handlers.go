package api

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"github.com/tactus/partita/core/bundle"
	"github.com/tactus/partita/core/canorusml"
	"github.com/tactus/partita/core/catalog"
	"github.com/tactus/partita/core/errors"
	"github.com/tactus/partita/core/midi"
	"github.com/tactus/partita/core/resource"
	"github.com/tactus/partita/core/sqlite"
)

// maxScoreBytes caps uploaded score documents.
const maxScoreBytes = 16 << 20

// APIResponse is the standard API response wrapper.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *APIMeta    `json:"meta,omitempty"`
}

// APIError represents an API error.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIMeta contains response metadata.
type APIMeta struct {
	Total     int    `json:"total,omitempty"`
	Timestamp string `json:"timestamp"`
}

// SheetSummary describes one sheet of an imported score.
type SheetSummary struct {
	Name     string `json:"name"`
	Staves   int    `json:"staves"`
	Voices   int    `json:"voices"`
	Elements int    `json:"elements"`
}

// ScoreSummary describes an imported score document.
type ScoreSummary struct {
	Title     string         `json:"title,omitempty"`
	Composer  string         `json:"composer,omitempty"`
	Sheets    []SheetSummary `json:"sheets"`
	Resources int            `json:"resources"`
	Warnings  []string       `json:"warnings,omitempty"`
}

// HealthInfo is the health check response.
type HealthInfo struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
	Scores  int    `json:"scores"`
	Driver  string `json:"driver"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]interface{}{
		"name":    "Partita API",
		"version": canorusml.CurrentVersion,
		"endpoints": []string{
			"GET /health",
			"GET /scores",
			"POST /scores",
			"GET /scores/{id}",
			"DELETE /scores/{id}",
			"POST /convert",
			"WS /ws",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	entries, err := s.catalog.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	respond(w, http.StatusOK, HealthInfo{
		Status:  "ok",
		Version: canorusml.CurrentVersion,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		Scores:  len(entries),
		Driver:  sqlite.DriverType(),
	})
}

func (s *Server) handleListScores(w http.ResponseWriter, r *http.Request) {
	entries, err := s.listOrSearch(r, r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	respondList(w, entries, len(entries))
}

func (s *Server) listOrSearch(r *http.Request, query string) ([]*catalog.Entry, error) {
	if query != "" {
		return s.catalog.Search(r.Context(), query)
	}
	return s.catalog.List(r.Context())
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Score not found: "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	respond(w, http.StatusOK, entry)
}

func (s *Server) handleDeleteScore(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.catalog.Remove(r.Context(), id); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Score not found: "+id)
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}
	respond(w, http.StatusOK, map[string]string{"deleted": id})
}

// handleImportScore imports a CanorusML document from the request body,
// catalogs it and returns the catalog entry plus an import summary.
func (s *Server) handleImportScore(w http.ResponseWriter, r *http.Request) {
	res := s.importBody(w, r)
	if res == nil {
		return
	}

	path := r.URL.Query().Get("path")
	entry, err := s.catalog.Add(r.Context(), res.Document, path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
		return
	}

	s.hub.BroadcastComplete("import", "score imported", map[string]interface{}{"id": entry.ID})
	respond(w, http.StatusCreated, map[string]interface{}{
		"entry":   entry,
		"summary": summarize(res),
	})
}

// handleConvert imports a CanorusML document from the request body and
// returns it in the requested target format: "midi" (first sheet as SMF),
// "bundle" (score bundle archive) or "canorusml" (normalized XML).
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	res := s.importBody(w, r)
	if res == nil {
		return
	}
	doc := res.Document

	switch target := r.URL.Query().Get("to"); target {
	case "midi":
		if len(doc.Sheets()) == 0 {
			respondError(w, http.StatusUnprocessableEntity, "EMPTY_SCORE", "Document has no sheets")
			return
		}
		w.Header().Set("Content-Type", "audio/midi")
		if err := midi.Export(doc.Sheets()[0], w); err != nil {
			respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		}

	case "bundle":
		tmp := filepath.Join(os.TempDir(), "partita-convert-"+time.Now().Format("20060102150405.000000000")+".pab")
		defer os.Remove(tmp)
		if err := bundle.Write(doc, tmp); err != nil {
			respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		f, err := os.Open(tmp)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
			return
		}
		defer f.Close()
		io.Copy(w, f)

	case "", "canorusml":
		w.Header().Set("Content-Type", "application/xml")
		if err := canorusml.Export(doc, w); err != nil {
			respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", err.Error())
		}

	default:
		respondError(w, http.StatusBadRequest, "BAD_TARGET", "Unknown target format: "+target)
	}
}

// importBody parses the request body as CanorusML. On failure it writes
// the error response itself and returns nil.
func (s *Server) importBody(w http.ResponseWriter, r *http.Request) *canorusml.Result {
	body := http.MaxBytesReader(w, r.Body, maxScoreBytes)
	defer body.Close()

	im := canorusml.Importer{Resources: resource.NewController()}
	res, err := im.Import(body)
	if err != nil {
		var malformed *canorusml.MalformedInputError
		var structural *canorusml.StructuralError
		switch {
		case errors.As(err, &malformed), errors.As(err, &structural):
			respondError(w, http.StatusUnprocessableEntity, "INVALID_SCORE", err.Error())
		default:
			respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		}
		return nil
	}
	return res
}

func summarize(res *canorusml.Result) ScoreSummary {
	doc := res.Document
	summary := ScoreSummary{
		Title:     doc.Title,
		Composer:  doc.Composer,
		Resources: len(doc.Resources()),
	}
	for _, sheet := range doc.Sheets() {
		ss := SheetSummary{Name: sheet.Name(), Staves: len(sheet.StaffList())}
		for _, v := range sheet.VoiceList() {
			ss.Voices++
			ss.Elements += len(v.Elements())
		}
		summary.Sheets = append(summary.Sheets, ss)
	}
	for _, warning := range res.Warnings {
		summary.Warnings = append(summary.Warnings, warning.String())
	}
	return summary
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondList(w http.ResponseWriter, data interface{}, total int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(APIResponse{
		Success: true,
		Data:    data,
		Meta:    &APIMeta{Total: total, Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
		Meta:    &APIMeta{Timestamp: time.Now().UTC().Format(time.RFC3339)},
	})
}
