package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/building-feature-engineering/services/api/building"
)

// RouteInfo is one entry of the route index served at "/".
type RouteInfo struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	s.handle(http.MethodGet, "/", "Root path", s.handleRoot)
	s.handle(http.MethodPost, "/diff", "create_diff", s.transformHandler(building.DiffTransform))
	s.handle(http.MethodPost, "/normalize/minmax", "create_min_max_normalization", s.transformHandler(building.MinMaxTransform))
	s.handle(http.MethodPost, "/normalize/mean", "create_mean_normalization", s.transformHandler(building.MeanTransform))
}

// handle registers an API route and lists it in the route index.
func (s *Server) handle(method, path, name string, h gin.HandlerFunc) {
	s.engine.Handle(method, path, h)
	s.routes = append(s.routes, RouteInfo{Path: path, Name: name})
}

// Routes returns the named API routes.
func (s *Server) Routes() []RouteInfo {
	return append([]RouteInfo(nil), s.routes...)
}
