package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// ImageCache provides thread-safe caching of decoded images to avoid redundant
// disk reads and decodes.
//
// Images are stored already normalized to *image.NRGBA, the representation the
// sticker pipeline works on, keyed by the path string given to Load.
//
// ImageCache is safe for concurrent use by multiple goroutines. Cached rasters
// are shared between callers and must be treated as read-only.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// For long-running processes handling many images, consider periodic cleanup to
// prevent unbounded memory growth.
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves an image from the cache or reads and decodes it from disk.
//
// Supported formats are PNG, JPEG, GIF, BMP, TIFF and WebP. JPEG files are
// rotated according to their EXIF orientation.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns an error matching sticker.ErrDecode if the contents are not a
//     supported image
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}

	img, err := sticker.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp" or "unknown".
	Format string `json:"format"`

	// HasAlpha is true when at least one pixel is not fully opaque. Images
	// without transparency get a border around the whole canvas only.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

var formatsByExt = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".bmp":  "bmp",
	".tif":  "tiff",
	".tiff": "tiff",
	".webp": "webp",
}

// LoadImageInfo loads an image into the cache and returns its metadata.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format, ok := formatsByExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		format = "unknown"
	}

	return &ImageInfo{
		Width:         img.Rect.Dx(),
		Height:        img.Rect.Dy(),
		Format:        format,
		HasAlpha:      hasTransparency(img),
		FileSizeBytes: stat.Size(),
	}, nil
}

func hasTransparency(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 {
			return true
		}
	}
	return false
}

// DimensionsResult contains the width and height of an image.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of an image without additional metadata.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	return &DimensionsResult{
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
	}, nil
}
