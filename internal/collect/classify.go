package collect

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/scottbass3/imgprobe/internal/target"
)

var imageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp", ".tif", ".tiff", ".svg", ".avif", ".ico",
}

// Reference is a classified image reference ready to become a Target.
type Reference struct {
	Kind    target.Kind
	Request string
	Display string
}

// Classify resolves ref as seen in sourceFile. root anchors references that
// start with "/" and cwd is used for local display paths. ok is false for
// references that are not images or cannot be probed.
func Classify(ref, sourceFile, root, cwd string) (Reference, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return Reference{}, false
	}
	if strings.HasPrefix(ref, "//") {
		ref = "https:" + ref
	}

	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https":
			return classifyRemote(u)
		default:
			return Reference{}, false
		}
	}
	return classifyLocal(ref, sourceFile, root, cwd)
}

func classifyRemote(u *url.URL) (Reference, bool) {
	if u.Host == "" {
		return Reference{}, false
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if ext := strings.ToLower(path.Ext(u.Path)); ext != "" && !lo.Contains(imageExtensions, ext) {
		return Reference{}, false
	}
	normalized := u.String()
	return Reference{Kind: target.Remote, Request: normalized, Display: normalized}, true
}

func classifyLocal(ref, sourceFile, root, cwd string) (Reference, bool) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if unescaped, err := url.PathUnescape(ref); err == nil {
		ref = unescaped
	}
	if ref == "" || !lo.Contains(imageExtensions, strings.ToLower(filepath.Ext(ref))) {
		return Reference{}, false
	}

	var abs string
	switch {
	case strings.HasPrefix(ref, "/"):
		abs = filepath.Join(root, filepath.FromSlash(ref))
	default:
		abs = filepath.Join(filepath.Dir(sourceFile), filepath.FromSlash(ref))
	}
	if resolved, err := filepath.Abs(abs); err == nil {
		abs = resolved
	}
	return Reference{Kind: target.Local, Request: abs, Display: displayPath(abs, cwd)}, true
}

func displayPath(abs, cwd string) string {
	if cwd == "" {
		return abs
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}
