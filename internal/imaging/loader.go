package imaging

import (
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/disintegration/imaging"
)

// DefaultCacheEntries is the capacity of a cache created with a
// non-positive limit.
const DefaultCacheEntries = 8

// ImageCache provides thread-safe caching of decoded images to avoid redundant disk reads.
//
// Entries are keyed by file path and remember the file's modification time
// and size. Load stats the file on every call and decodes it again when
// either has changed, so an image edited on disk is never served stale.
// Cached images are never modified; pipeline stages always produce new images.
//
// # Memory Management
//
// The cache holds at most its capacity of images. Adding one more drops the
// oldest entry. Callers that delete files from disk should Evict the
// matching path.
//
// # Example Usage
//
//	cache := imaging.NewImageCache(0)
//	img, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    return err
//	}
//	fitted := imaging.FitWithin(img, 800, 600)
type ImageCache struct {
	mu     sync.RWMutex
	limit  int
	images map[string]cacheEntry
	order  []string // insertion order, oldest first
}

type cacheEntry struct {
	img     image.Image
	modTime time.Time
	size    int64
}

func (e cacheEntry) matches(fi os.FileInfo) bool {
	return e.size == fi.Size() && e.modTime.Equal(fi.ModTime())
}

// NewImageCache creates an empty cache holding up to limit images.
// A non-positive limit uses DefaultCacheEntries.
//
// The returned cache is ready for immediate use and is safe for concurrent access.
func NewImageCache(limit int) *ImageCache {
	if limit <= 0 {
		limit = DefaultCacheEntries
	}
	return &ImageCache{
		limit:  limit,
		images: make(map[string]cacheEntry),
	}
}

// Load returns the image at path, decoding it from disk unless the cache
// holds a copy whose modification time and size still match the file.
//
// Supported formats are those registered by disintegration/imaging: PNG, JPEG,
// GIF, BMP and TIFF. JPEG files carrying an EXIF orientation tag are rotated
// upright while decoding.
//
// # Errors
//
// Any stat, open or decode failure is returned wrapped in ErrUnreadableImage.
// Failed loads are not cached.
func (c *ImageCache) Load(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	c.mu.RLock()
	e, ok := c.images[path]
	c.mu.RUnlock()
	if ok && e.matches(fi) {
		return e.img, nil
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}

	c.mu.Lock()
	c.put(path, cacheEntry{img: img, modTime: fi.ModTime(), size: fi.Size()})
	c.mu.Unlock()

	return img, nil
}

// put stores e under path, dropping the oldest entries beyond the limit.
// Callers hold mu.
func (c *ImageCache) put(path string, e cacheEntry) {
	if _, ok := c.images[path]; !ok {
		c.order = append(c.order, path)
	}
	c.images[path] = e
	for len(c.order) > c.limit {
		delete(c.images, c.order[0])
		c.order = c.order[1:]
	}
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[path]; !ok {
		return
	}
	delete(c.images, path)
	for i, p := range c.order {
		if p == path {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// FormatName returns the image format implied by the file extension of path
// ("png", "jpeg", "gif", "bmp", "tiff"), or "unknown".
func FormatName(path string) string {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return "unknown"
	}
	switch f {
	case imaging.JPEG:
		return "jpeg"
	case imaging.PNG:
		return "png"
	case imaging.GIF:
		return "gif"
	case imaging.BMP:
		return "bmp"
	case imaging.TIFF:
		return "tiff"
	}
	return "unknown"
}

// FitSize computes the dimensions of a w×h image shrunk to fit inside
// maxW×maxH while preserving its aspect ratio.
//
// The scale factor is min(maxW/w, maxH/h) and each side is truncated to an
// integer, never below 1 pixel. Images that already fit are returned at their
// own size: FitSize never enlarges. Non-positive limits disable fitting.
//
// For example, 1600×1200 into 800×600 gives exactly 800×600, and 1000×400
// into 800×600 gives 800×320.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return w, h
	}
	if w <= maxW && h <= maxH {
		return w, h
	}

	ratio := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := int(float64(w) * ratio)
	newH := int(float64(h) * ratio)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	return newW, newH
}

// FitWithin shrinks img to fit inside maxW×maxH using Lanczos resampling.
//
// The target size comes from FitSize. When no resize is needed the original
// image is returned as-is; otherwise the result is a new *image.NRGBA whose
// bounds start at (0,0).
func FitWithin(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	newW, newH := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if newW == b.Dx() && newH == b.Dy() {
		return img
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos)
}

// EncodePNG writes img to w in PNG format.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SavePNG writes img to path as a PNG, creating or truncating the file.
//
// The file is written in place, so a failure midway leaves a partial file
// behind.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
