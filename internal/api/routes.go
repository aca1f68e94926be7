package api

import (
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"estatequery/server/config"
	"estatequery/server/internal/metrics"
)

// NewRouter builds the engine with recovery, CORS, request logging and
// metrics middleware and mounts every route.
func NewRouter(cfg *config.Config, handler *Handler, m *metrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))
	router.Use(RequestLogger(handler.logger))

	var metricsHandler http.Handler
	if m != nil {
		router.Use(m.Middleware())
		metricsHandler = m.Handler()
	}

	SetupRoutes(router, handler, metricsHandler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler, metricsHandler http.Handler) {
	router.GET("/hello", handler.Hello)
	router.GET("/hello/:name", handler.HelloName)

	router.GET("/locations", handler.ListLocations)
	locations := router.Group("/locations")
	{
		locations.GET("/", handler.ListLocations)
		locations.GET("/geojson", handler.LocationsGeoJSON)
		locations.GET("/:location_id", handler.GetLocation)
	}

	offers := router.Group("/offers")
	{
		offers.GET("", handler.ListOffers)
		offers.POST("/import", handler.ImportOffers)
	}

	router.GET("/healthz", handler.Healthz)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = append(cfg.AllowHeaders, traceIDHeader)
	cfg.ExposeHeaders = []string{traceIDHeader}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
