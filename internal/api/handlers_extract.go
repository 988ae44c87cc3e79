package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/tdalton7/earnex/internal/extract"
	"github.com/tdalton7/earnex/internal/oracle"
	"github.com/tdalton7/earnex/internal/pipeline"
)

// batchEntry is the wire form of one document's outcome.
type batchEntry struct {
	File       string                     `json:"file"`
	Record     *extract.ExtractionRecord  `json:"record,omitempty"`
	Validation *extract.ValidationOutcome `json:"validation,omitempty"`
	Tier       string                     `json:"tier,omitempty"`
	Error      string                     `json:"error,omitempty"`
	ErrorKind  string                     `json:"error_kind,omitempty"`
}

func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	maxWorkers := 0
	if v := r.FormValue("max_workers"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxWorkers = n
		}
	}

	// Unreadable uploads become entries up front; everything else runs
	// through the strategy. Entry i always corresponds to file i.
	entries := make([]batchEntry, len(files))
	var docs []pipeline.Document
	var docIdx []int
	for i, fh := range files {
		name := sanitizeFilename(fh.Filename)
		entries[i].File = name

		f, err := fh.Open()
		if err != nil {
			entries[i].Error = "failed to open file"
			entries[i].ErrorKind = "extraction_error"
			continue
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil || int64(len(data)) > s.cfg.MaxUploadBytes {
			entries[i].Error = fmt.Sprintf("file too large or read error (max %d bytes)", s.cfg.MaxUploadBytes)
			entries[i].ErrorKind = "extraction_error"
			continue
		}

		docs = append(docs, pipeline.Document{Name: name, Data: data})
		docIdx = append(docIdx, i)
	}

	batchID := uuid.NewString()
	log := s.log.With("batch_id", batchID)
	log.Info("batch accepted", "files", len(files))

	outcome := s.coord.ExtractBatch(r.Context(), docs, maxWorkers)
	for j, res := range outcome {
		entries[docIdx[j]] = s.toEntry(res)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"batch_id": batchID,
		"results":  entries,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	doc := pipeline.Document{Name: sanitizeFilename(header.Filename), Data: data}
	outcome := s.coord.ExtractBatch(r.Context(), []pipeline.Document{doc}, 1)
	entry := s.toEntry(outcome[0])

	w.Header().Set("Content-Type", "application/json")
	if entry.Error != "" {
		w.WriteHeader(failureStatus(entry.ErrorKind))
	}
	json.NewEncoder(w).Encode(entry)
}

// toEntry converts a strategy result for the wire and records systemic
// auth failures.
func (s *Server) toEntry(res pipeline.Result) batchEntry {
	entry := batchEntry{File: res.Document}
	if res.Err != nil {
		entry.Error = res.Err.Error()
		entry.ErrorKind = pipeline.FailureKind(res.Err)
		if oracle.IsAuth(res.Err) {
			s.log.Error("oracle authentication failed, marking service degraded")
			s.degraded.Store(true)
		}
		return entry
	}
	entry.Record = res.Record
	entry.Validation = &res.Validation
	entry.Tier = string(res.Tier)
	return entry
}

// failureStatus maps a terminal failure kind to an HTTP status:
// client-caused problems are 4xx, oracle- and service-caused are 5xx.
func failureStatus(kind string) int {
	switch kind {
	case "rate_limited":
		return http.StatusServiceUnavailable
	case "auth_error":
		return http.StatusInternalServerError
	case "extraction_error":
		return http.StatusBadRequest
	default: // bad_request, service_error, parse_failure
		return http.StatusBadGateway
	}
}

func (s *Server) handleOracleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.oracle.Stats().Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
