package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures the HTTP router
type RouterOptions struct {
	// AllowedOrigins for CORS; empty allows local development origins
	AllowedOrigins []string
	// Events serves the SSE stream; nil leaves /events unrouted
	Events http.Handler
}

// NewRouter wires the API routes
func NewRouter(h *GraphHandler, opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))

		r.Get("/graph", h.GetGraph)
		r.Get("/problems", h.GetProblems)
		r.Get("/history", h.GetHistory)
		r.Get("/nodes/{id}", h.GetNode)
		r.Post("/nodes/{id}/unlock", h.UnlockNode)
		r.Get("/progress", h.GetProgress)
		r.Post("/progress/reset", h.ResetProgress)

		r.Route("/view", func(r chi.Router) {
			r.Get("/", h.GetView)
			r.Post("/zoom", h.Zoom)
			r.Post("/pan", h.Pan)
			r.Post("/scroll", h.Scroll)
			r.Post("/tab", h.SetTab)
			r.Post("/save", h.SaveView)
		})

		r.Post("/input", h.Input)
		r.Get("/frame", h.GetFrame)
		r.Get("/export", h.Export)
		r.Post("/reload", h.Reload)
	})

	if opts.Events != nil {
		r.Method(http.MethodGet, "/events", opts.Events)
	}

	return r
}
