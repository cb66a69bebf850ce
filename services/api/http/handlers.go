package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/building-feature-engineering/services/api/building"
)

type transformRequest struct {
	Payload string `json:"payload"`
}

// handleRoot lists the routes available through the API.
// GET /
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, s.Routes())
}

// transformHandler decodes the embedded payload, applies t and returns the
// encoded buildings as a JSON string.
// POST /diff, /normalize/minmax, /normalize/mean
func (s *Server) transformHandler(t building.Transform) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transformRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.Payload == "" {
			s.metrics.TransformFailed(t.Name, "empty")
			c.JSON(http.StatusBadRequest, gin.H{"error": building.ErrEmptyPayload.Error()})
			return
		}

		start := time.Now()
		buildings, err := building.DecodeString(req.Payload)
		if err == nil {
			err = t.Apply(buildings)
		}
		var out []byte
		if err == nil {
			out, err = building.Encode(buildings)
		}
		if err != nil {
			status, kind := classify(err)
			s.metrics.TransformFailed(t.Name, kind)
			if status >= http.StatusInternalServerError {
				log.Printf("%s failed (request=%s): %v", t.Name, c.GetString("request_id"), err)
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		s.metrics.ObserveTransform(t.Name, len(buildings), time.Since(start))

		c.JSON(http.StatusOK, string(out))
	}
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, building.ErrEmptyPayload):
		return http.StatusBadRequest, "empty"
	case errors.Is(err, building.ErrDecode):
		return http.StatusBadRequest, "decode"
	case errors.Is(err, building.ErrSchemaMismatch):
		return http.StatusInternalServerError, "schema"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
