package collect

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/scottbass3/imgprobe/internal/config"
	"github.com/scottbass3/imgprobe/internal/target"
)

type Collector struct {
	ignore     []string
	extensions []string
	cwd        string
}

type Result struct {
	Targets *target.Set
	Files   int
	Skipped []string
}

func New(cfg config.Config, cwd string) *Collector {
	return &Collector{
		ignore:     cfg.IgnoreDirs,
		extensions: cfg.Extensions,
		cwd:        cwd,
	}
}

// Walk scans every matching file under root and collects the image
// references they contain. Unreadable files are listed in Skipped; an
// unreadable root is an error.
func (c *Collector) Walk(ctx context.Context, root string) (Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Result{}, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return Result{}, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return Result{}, fmt.Errorf("scan root %s is not a directory", root)
	}

	res := Result{Targets: target.NewSet()}
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == absRoot {
				return walkErr
			}
			res.Skipped = append(res.Skipped, displayPath(path, c.cwd))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != absRoot && lo.Contains(c.ignore, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !lo.Contains(c.extensions, strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			res.Skipped = append(res.Skipped, displayPath(path, c.cwd))
			return nil
		}
		res.Files++
		c.addFile(res.Targets, absRoot, path, string(data))
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", root, err)
	}
	return res, nil
}

func (c *Collector) addFile(set *target.Set, root, path, content string) {
	source := displayPath(path, c.cwd)
	for _, raw := range Extract(content) {
		ref, ok := Classify(raw, path, root, c.cwd)
		if !ok {
			continue
		}
		set.Add(ref.Kind, ref.Request, ref.Display, source)
	}
}
