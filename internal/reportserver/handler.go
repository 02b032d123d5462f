package reportserver

import (
	"errors"
	"io"
	"net/http"

	"quorum/internal/duckdb"
	"quorum/internal/report"
)

// loadHistory is a test seam for warehouse access.
var loadHistory = duckdb.LoadRunHistory

// NewHandler builds the HTTP handler serving the run history page and the
// raw warehouse file.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("reportserver: db path is required")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", serveHistory(cfg.DBPath))
	mux.Handle("/data/db.duckdb", serveDatabase(cfg.DBPath))
	return mux, nil
}

// serveHistory renders the run history on every request, so a long-lived
// server picks up freshly ingested runs without restarting.
func serveHistory(dbPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		records, err := loadHistory(r.Context(), dbPath)
		if err != nil {
			http.Error(w, "failed to load run history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, report.BuildHistoryHTML(records))
	}
}

// serveDatabase serves the DuckDB file from disk for offline analysis.
func serveDatabase(dbPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, dbPath)
	})
}
