package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartOverhead is the room left in a request body for part headers,
// boundaries and form fields on top of the upload itself.
const multipartOverhead = 64 << 10

// BuildInfo is reported by GET /version.
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// NewRouter wires the middleware chain and routes. gin's mode must be set by
// the caller before building the router.
func NewRouter(h *Handler, logger *zap.Logger, info BuildInfo) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	r.Use(CORS())

	// Uploads are parsed in memory: bodies are capped at bodyLimit, and
	// multipart files only spill to disk past MaxMultipartMemory.
	bodyLimit := h.cfg.Upload.MaxSize + multipartOverhead
	r.MaxMultipartMemory = bodyLimit

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"version": info.Version,
		})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, info)
	})

	r.POST("/create-sticker", BodyLimit(bodyLimit), h.CreateSticker)
	return r
}
