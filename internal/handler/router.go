package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hub-route-engine/internal/handler/api"
	"hub-route-engine/internal/handler/middleware"
	"hub-route-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, feasibilityHandler *api.FeasibilityHandler, reservationHandler *api.ReservationHandler, eventHandler *api.EventHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, feasibilityHandler, reservationHandler, eventHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, feasibilityHandler *api.FeasibilityHandler, reservationHandler *api.ReservationHandler, eventHandler *api.EventHandler) {
	engine.GET("/health", healthCheck)

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/feasibility", Handler: feasibilityHandler.Plan},
			{Method: http.MethodPost, Path: "/events", Handler: eventHandler.Record},
			{Method: http.MethodGet, Path: "/audit-trail", Handler: eventHandler.Trail},
		})

		reservations := apiGroup.Group("/reservations")
		{
			addRoutes(reservations, []route{
				{Method: http.MethodPost, Path: "", Handler: reservationHandler.Reserve},
				{Method: http.MethodPost, Path: "/:id/consume", Handler: reservationHandler.Consume},
				{Method: http.MethodPost, Path: "/:id/cancel", Handler: reservationHandler.Cancel},
			})
		}
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
