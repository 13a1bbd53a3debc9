package icon

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Asset is one loaded icon.
type Asset struct {
	Data   []byte `json:"-"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Loader resolves dotted icon references under a fixed assets root and loads
// them through a bounded worker pool. Any per-asset failure (missing file,
// decode error) yields a nil asset; a record without an icon is still a
// complete result.
type Loader struct {
	root    string
	workers int
	logger  *zap.Logger
}

// NewLoader creates a Loader rooted at root with one worker per available
// CPU.
func NewLoader(root string, logger *zap.Logger) *Loader {
	return &Loader{root: root, workers: runtime.GOMAXPROCS(0), logger: logger}
}

// Path maps a dotted icon reference to its file path: segments become nested
// directories, extension is fixed at .png.
func (l *Loader) Path(ref string) string {
	return filepath.Join(l.root, filepath.FromSlash(strings.ReplaceAll(ref, ".", "/"))+".png")
}

// Load resolves and loads one asset per reference, positionally aligned with
// refs. Cancellation is checked before each item's work begins; loads that
// already started are allowed to finish.
func (l *Loader) Load(ctx context.Context, refs []string) []*Asset {
	assets := make([]*Asset, len(refs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				assets[i] = l.load(refs[i])
			}
		}()
	}

	for i, ref := range refs {
		if ref == "" {
			continue
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return assets
}

func (l *Loader) load(ref string) *Asset {
	path := l.Path(ref)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		l.logger.Debug("icon decode failed", zap.String("path", path), zap.Error(err))
		return nil
	}
	return &Asset{Data: data, Width: cfg.Width, Height: cfg.Height}
}
