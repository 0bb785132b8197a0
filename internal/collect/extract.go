package collect

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	markdownImage = regexp.MustCompile(`!\[[^\]]*\]\(\s*<?([^)\s>]+)>?(?:\s+["'][^"']*["'])?\s*\)`)
	htmlImgSrc    = regexp.MustCompile(`(?i)<img\b[^>]*?\bsrc\s*=\s*["']([^"']+)["']`)
	htmlSrcset    = regexp.MustCompile(`(?i)<(?:img|source)\b[^>]*?\bsrcset\s*=\s*["']([^"']+)["']`)
	cssURL        = regexp.MustCompile(`(?i)url\(\s*["']?([^"')\s]+)["']?\s*\)`)
)

// Extract returns the image references found in content, in order of first
// appearance and without duplicates.
func Extract(content string) []string {
	type match struct {
		pos int
		ref string
	}
	var matches []match
	collect := func(re *regexp.Regexp, pick func(string) string) {
		for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
			ref := pick(content[loc[2]:loc[3]])
			if ref != "" {
				matches = append(matches, match{pos: loc[0], ref: ref})
			}
		}
	}
	collect(markdownImage, strings.TrimSpace)
	collect(htmlImgSrc, strings.TrimSpace)
	collect(htmlSrcset, firstSrcsetCandidate)
	collect(cssURL, strings.TrimSpace)

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].pos < matches[j].pos })
	refs := lo.Map(matches, func(m match, _ int) string { return m.ref })
	return lo.Uniq(refs)
}

func firstSrcsetCandidate(srcset string) string {
	first, _, _ := strings.Cut(srcset, ",")
	fields := strings.Fields(first)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
