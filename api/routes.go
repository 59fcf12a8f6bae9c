package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"metarelay/handlers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for all routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware turns an uncaught fault into a 500 with the fault text.
// Handled cases, including empty results, never reach this path.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[api] panic serving %s: %v", r.URL.Path, rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprint(rec)})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// requestLogMiddleware logs each request with a generated ID so concurrent
// request lines can be correlated.
func requestLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()[:8]
		log.Printf("[api] %s %s %s", id, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
}

// Register mounts the agent endpoints onto the provided router. The /plex
// aliases keep compatibility with clients configured against the original
// worker paths.
func Register(r *mux.Router, agent *handlers.AgentHandler) {
	r.Use(corsMiddleware)
	r.Use(recoverMiddleware)
	r.Use(requestLogMiddleware)

	r.HandleFunc("/", agent.Manifest).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/search", agent.Search).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/plex/search", agent.Search).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/metadata", agent.Metadata).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/plex/metadata", agent.Metadata).Methods(http.MethodGet, http.MethodOptions)

	// mux does not run Use middleware for the NotFoundHandler, so wrap it
	// explicitly to keep CORS and request logging on 404s.
	r.NotFoundHandler = corsMiddleware(requestLogMiddleware(http.HandlerFunc(notFound)))
}
