package collect

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "markdown with title and angle brackets",
			content: "intro ![logo](img/logo.png \"Logo\") and ![](<docs/shot one.png>)",
			want:    []string{"img/logo.png"},
		},
		{
			name:    "html img and srcset",
			content: `<img alt="a" src="https://cdn.example.com/a.png"><source srcset="b-1x.webp 1x, b-2x.webp 2x">`,
			want:    []string{"https://cdn.example.com/a.png", "b-1x.webp"},
		},
		{
			name:    "css url variants",
			content: `.hero { background: url('hero.jpg') } .icon { background: url(icons/x.svg); }`,
			want:    []string{"hero.jpg", "icons/x.svg"},
		},
		{
			name:    "mixed sources keep file order and drop duplicates",
			content: "url(z.png)\n![a](a.png)\n<IMG SRC='z.png'>\n![again](a.png)",
			want:    []string{"z.png", "a.png"},
		},
		{
			name:    "nothing to find",
			content: "plain [link](page.html) text",
			want:    []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.content)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}
