package wrapped

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/rakshitranga/canvas-wrapped/internal/canvas"
	"github.com/rakshitranga/canvas-wrapped/internal/config"
)

// Handler serves the wrapped endpoint. A fresh collector is built per
// request since the Canvas host and token arrive as path parameters.
type Handler struct {
	newCollector func(host, token string) *canvas.Collector
	engine       *Engine
}

func NewHandler(cfg config.Canvas, loc *time.Location) *Handler {
	return &Handler{
		newCollector: func(host, token string) *canvas.Collector {
			client := canvas.NewClient(host, token, cfg.PerPage, cfg.RequestTimeout)
			return canvas.NewCollector(client, canvas.CollectorOptions{
				WindowMonths: cfg.CourseWindowMonths,
				Concurrency:  cfg.FetchConcurrency,
			})
		},
		engine: NewEngine(loc),
	}
}

func (h *Handler) GetWrapped(w http.ResponseWriter, r *http.Request) {
	host := chi.URLParam(r, "canvasHost")
	token := chi.URLParam(r, "accessToken")
	if host == "" || token == "" {
		http.Error(w, "canvas host and access token are required", http.StatusBadRequest)
		return
	}

	collection, err := h.newCollector(host, token).Collect(r.Context())
	if err != nil {
		slog.Error("failed to collect canvas data", "host", host, "err", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, errorResponse{Error: err.Error()})
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, wrappedResponse{
		Success:          true,
		User:             collection.UserName,
		Courses:          collection.Courses,
		TotalCourses:     len(collection.Courses),
		TotalSubmissions: len(collection.Submissions),
		Metrics:          h.engine.Build(collection),
	})
}

func Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}
