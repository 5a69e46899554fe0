package routes

import (
	"net/http"
	"net/http/pprof"

	"drafts-api/controllers"
	"drafts-api/middlewares"
	"drafts-api/web"

	"github.com/gorilla/mux"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Sessions       controllers.SessionManager
	Posts          controllers.PostStore
	Users          controllers.UserStore
	BearerToken    string
	AllowedOrigins []string
	// RateLimiter is optional.
	RateLimiter *middlewares.RateLimiter
}

// SetupRoutes sets up the application routes and middlewares.
func SetupRoutes(deps Dependencies) http.Handler {
	router := mux.NewRouter()

	router.Use(middlewares.CorsMiddleware(&middlewares.CorsConfig{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middlewares.LoggingMiddleware)
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Limit)
	}

	pages := &web.Pages{Sessions: deps.Sessions, Drafts: deps.Posts}
	postHandler := &controllers.PostHandler{Sessions: deps.Sessions, Posts: deps.Posts}
	authHandler := &controllers.AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Pages: pages}

	controllers.SetupRootRoute(router, pages)
	postHandler.SetupPostRoutes(router)
	authHandler.SetupUserRoutes(router)

	// Profiling is for operators only.
	debugRouter := router.PathPrefix("/debug/pprof").Subrouter()
	debugRouter.Use(middlewares.ValidateBearerToken(deps.BearerToken))
	debugRouter.HandleFunc("/cmdline", pprof.Cmdline)
	debugRouter.HandleFunc("/profile", pprof.Profile)
	debugRouter.HandleFunc("/symbol", pprof.Symbol)
	debugRouter.HandleFunc("/trace", pprof.Trace)
	debugRouter.PathPrefix("/").HandlerFunc(pprof.Index)

	return router
}
