package controllers

import (
	"net/http"

	"drafts-api/web"

	"github.com/gorilla/mux"
)

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write([]byte("ok"))
}

// SetupRootRoute registers the pages and the health check.
func SetupRootRoute(router *mux.Router, pages *web.Pages) {
	router.HandleFunc("/", pages.Home).Methods(http.MethodGet)
	router.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	router.HandleFunc(web.CreatePath, pages.Create).Methods(http.MethodGet)
	router.HandleFunc(web.DraftsPath, pages.DraftList).Methods(http.MethodGet)
}
