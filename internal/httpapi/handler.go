// Package httpapi serves the sticker pipeline over HTTP.
//
// POST /create-sticker accepts a multipart upload in field "image" and answers
// with the sticker as image/png. Optional form fields named after the sticker
// settings (alpha_threshold, border_size, border_color, ...) override the
// configured defaults for that request.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/sticker-tools-mcp/internal/cache"
	"github.com/ironsheep/sticker-tools-mcp/internal/config"
	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

var errBusy = errors.New("all render slots are busy")

// Handler renders uploaded images. Renders run concurrently up to
// cfg.Server.MaxConcurrent; further requests wait up to cfg.Server.QueueTimeout.
type Handler struct {
	cfg    *config.Config
	store  cache.Store
	logger *zap.Logger
	slots  chan struct{}
}

// NewHandler returns a Handler. A nil store disables result caching.
func NewHandler(cfg *config.Config, store cache.Store, logger *zap.Logger) *Handler {
	if store == nil {
		store = cache.NopStore{}
	}
	return &Handler{
		cfg:    cfg,
		store:  store,
		logger: logger,
		slots:  make(chan struct{}, max(cfg.Server.MaxConcurrent, 1)),
	}
}

// CreateSticker handles POST /create-sticker.
func (h *Handler) CreateSticker(c *gin.Context) {
	file, err := c.FormFile("image")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || errors.Is(err, multipart.ErrMessageTooLarge) {
		h.logger.Warn("upload too large", zap.Error(err))
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: "request body is too large",
			Error:   err.Error(),
		})
		return
	}
	if err != nil {
		h.logger.Warn("missing image upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "an image file is required in form field \"image\"",
			Error:   err.Error(),
		})
		return
	}

	if file.Size > h.cfg.Upload.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Message: fmt.Sprintf("file exceeds the %d byte upload limit", h.cfg.Upload.MaxSize),
		})
		return
	}

	if ct := file.Header.Get("Content-Type"); !h.isAllowedType(ct) {
		c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
			Message: fmt.Sprintf("unsupported content type %q", ct),
		})
		return
	}

	settings, err := settingsFromForm(c, h.cfg.Sticker)
	if err != nil {
		h.fail(c, err)
		return
	}
	cfg, err := settings.Build()
	if err != nil {
		h.fail(c, err)
		return
	}

	input, err := readUpload(file)
	if err != nil {
		h.logger.Error("failed to read upload", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "failed to read upload", Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	key, err := cache.Key(input, cfg)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.logger.Info("sticker requested",
		zap.String("filename", file.Filename),
		zap.String("cache_key", key),
		zap.Int64("size", file.Size))

	if out, ok, err := h.store.Get(ctx, key); err != nil {
		h.logger.Warn("failed to get cache", zap.Error(err))
	} else if ok {
		h.logger.Info("cache hit", zap.String("cache_key", key))
		c.Header("X-Cache", "HIT")
		c.Data(http.StatusOK, "image/png", out)
		return
	}

	out, err := h.render(ctx, input, cfg)
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.Set(ctx, key, out); err != nil {
		h.logger.Warn("failed to set cache", zap.String("cache_key", key), zap.Error(err))
	}

	c.Header("X-Cache", "MISS")
	c.Data(http.StatusOK, "image/png", out)
}

func (h *Handler) render(ctx context.Context, input []byte, cfg sticker.Config) ([]byte, error) {
	if err := h.acquire(ctx); err != nil {
		return nil, err
	}
	defer func() { <-h.slots }()

	start := time.Now()
	out, err := sticker.ProcessLimit(input, cfg, h.cfg.Upload.MaxPixels)
	if err != nil {
		return nil, err
	}
	h.logger.Debug("sticker rendered",
		zap.Duration("cost", time.Since(start)),
		zap.Int("bytes", len(out)))
	return out, nil
}

// acquire takes a render slot, waiting at most QueueTimeout.
func (h *Handler) acquire(ctx context.Context) error {
	select {
	case h.slots <- struct{}{}:
		return nil
	default:
	}
	if h.cfg.Server.QueueTimeout <= 0 {
		return errBusy
	}

	timer := time.NewTimer(h.cfg.Server.QueueTimeout)
	defer timer.Stop()

	select {
	case h.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return errBusy
	case <-ctx.Done():
		return ctx.Err()
	}
}

// fail writes the error response matching err's category.
func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("failed to create sticker", zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Message: http.StatusText(status), Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, sticker.ErrDecode), errors.Is(err, sticker.ErrConfig):
		return http.StatusBadRequest
	case errors.Is(err, errBusy):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) isAllowedType(contentType string) bool {
	if len(h.cfg.Upload.AllowedTypes) == 0 {
		return true
	}
	for _, t := range h.cfg.Upload.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	return io.ReadAll(f)
}

// settingsFromForm overlays any sticker form fields present in the request on
// top of base.
func settingsFromForm(c *gin.Context, base config.StickerSettings) (config.StickerSettings, error) {
	s := base
	ints := []struct {
		field string
		dst   *int
	}{
		{"alpha_threshold", &s.AlphaThreshold},
		{"border_size", &s.BorderSize},
		{"padding", &s.Padding},
	}
	for _, f := range ints {
		if v, ok := c.GetPostForm(f.field); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return s, &sticker.ConfigError{Field: f.field, Value: v, Reason: "must be an integer"}
			}
			*f.dst = n
		}
	}

	floats := []struct {
		field string
		dst   *float64
	}{
		{"border_blur", &s.BorderBlur},
		{"shadow_blur_strength", &s.ShadowBlur},
	}
	for _, f := range floats {
		if v, ok := c.GetPostForm(f.field); ok {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return s, &sticker.ConfigError{Field: f.field, Value: v, Reason: "must be a number"}
			}
			*f.dst = n
		}
	}

	bools := []struct {
		field string
		dst   *bool
	}{
		{"bg_transparent", &s.BgTransparent},
		{"crop", &s.Crop},
	}
	for _, f := range bools {
		if v, ok := c.GetPostForm(f.field); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return s, &sticker.ConfigError{Field: f.field, Value: v, Reason: "must be true or false"}
			}
			*f.dst = b
		}
	}

	strs := []struct {
		field string
		dst   *string
	}{
		{"border_color", &s.BorderColor},
		{"shadow_color", &s.ShadowColor},
		{"bg_color", &s.BgColor},
		{"kernel", &s.Kernel},
	}
	for _, f := range strs {
		if v, ok := c.GetPostForm(f.field); ok {
			*f.dst = v
		}
	}
	return s, nil
}
