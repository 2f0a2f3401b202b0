package imagepkg

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

type logoResult struct {
	img image.Image
	err error
}

// Resolver loads deck logos from disk or over http(s) and remembers the
// outcome, failures included, so every card in an export sees the same
// result.
type Resolver struct {
	baseDir string
	logger  *zap.Logger

	// download is swapped in tests.
	download func(url string) (image.Image, error)

	mu    sync.Mutex
	cache map[string]logoResult
}

// NewResolver resolves relative paths against baseDir.
func NewResolver(baseDir string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		baseDir:  baseDir,
		logger:   logger,
		download: DownloadImage,
		cache:    map[string]logoResult{},
	}
}

// Resolve returns the decoded logo for ref.
func (r *Resolver) Resolve(ref string) (image.Image, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res, ok := r.cache[ref]; ok {
		return res.img, res.err
	}
	img, err := r.load(ref)
	if err != nil {
		r.logger.Debug("logo unavailable, falling back to short name",
			zap.String("logo", ref), zap.Error(err))
	}
	r.cache[ref] = logoResult{img: img, err: err}
	return img, err
}

func (r *Resolver) load(ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty logo reference")
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return r.download(ref)
	}
	path := ref
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	return imaging.Open(path, imaging.AutoOrientation(true))
}
