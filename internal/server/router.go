package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hmans/msgboard/internal/config"
	"github.com/hmans/msgboard/internal/graph"
)

// GraphQLPath is where the GraphQL endpoint and the playground are mounted.
const GraphQLPath = "/graphql"

// NewRouter wires middleware and routes for the resolver.
//
// Middleware order: request id, access log, panic recovery, metrics, rate
// limiting, CORS, compression.
func NewRouter(cfg *config.Config, res *graph.Resolver) *gin.Engine {
	gin.SetMode(cfg.Server.GinMode)

	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(RequestID())
	r.Use(Logger())
	r.Use(Recovery())
	r.Use(Metrics())
	if cfg.RateLimit.RPS > 0 {
		r.Use(NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler())
	}
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": "not_found", "message": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"code": "method_not_allowed", "message": "method not allowed"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	gatherers := prometheus.Gatherers{prometheus.DefaultGatherer, storeRegistry(res.Store)}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	gql := NewGraphQLHandler(cfg.GraphQL, res)
	play := playground.Handler("msgboard", GraphQLPath)

	serve := func(c *gin.Context) {
		// Browsers get the playground, API clients the endpoint.
		if cfg.GraphQL.Playground && c.Request.Method == http.MethodGet &&
			strings.Contains(c.GetHeader("Accept"), "text/html") {
			play.ServeHTTP(c.Writer, c.Request)
			return
		}
		gql.ServeHTTP(c.Writer, c.Request)
	}
	r.GET(GraphQLPath, serve)
	r.POST(GraphQLPath, serve)
	r.OPTIONS(GraphQLPath, serve)

	return r
}

// corsMiddleware allows every origin when none are configured.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader, "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
