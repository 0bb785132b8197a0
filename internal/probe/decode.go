package probe

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const sniffLen = 512

var errNotSVG = errors.New("not an svg document")

// DecodeDimensions reads only the container header from r and returns the
// pixel dimensions and format name. SVG is recognized by its root element.
func DecodeDimensions(r io.Reader) (Dimensions, string, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(sniffLen)
	if len(head) == 0 {
		return Dimensions{}, "", errors.New("empty input")
	}

	var (
		dims   Dimensions
		format string
		err    error
	)
	if looksLikeXML(head) {
		dims, err = decodeSVG(br)
		format = "svg"
	} else {
		var cfg image.Config
		cfg, format, err = image.DecodeConfig(br)
		dims = Dimensions{Width: cfg.Width, Height: cfg.Height}
	}
	if err != nil {
		return Dimensions{}, format, err
	}
	if dims.Width <= 0 || dims.Height <= 0 {
		return Dimensions{}, format, fmt.Errorf("invalid dimensions %dx%d", dims.Width, dims.Height)
	}
	return dims, format, nil
}

func looksLikeXML(head []byte) bool {
	head = bytes.TrimPrefix(head, []byte("\xef\xbb\xbf"))
	head = bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(head, []byte("<?xml")) ||
		bytes.HasPrefix(head, []byte("<svg")) ||
		bytes.HasPrefix(head, []byte("<!--")) ||
		bytes.HasPrefix(head, []byte("<!DOCTYPE svg"))
}

func decodeSVG(r io.Reader) (Dimensions, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Dimensions{}, errNotSVG
			}
			return Dimensions{}, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !strings.EqualFold(start.Name.Local, "svg") {
			return Dimensions{}, errNotSVG
		}
		return svgDimensions(start.Attr)
	}
}

func svgDimensions(attrs []xml.Attr) (Dimensions, error) {
	var width, height, viewBox string
	for _, attr := range attrs {
		switch strings.ToLower(attr.Name.Local) {
		case "width":
			width = attr.Value
		case "height":
			height = attr.Value
		case "viewbox":
			viewBox = attr.Value
		}
	}

	w, wok := parseSVGLength(width)
	h, hok := parseSVGLength(height)
	if wok && hok {
		return Dimensions{Width: w, Height: h}, nil
	}

	fields := strings.FieldsFunc(viewBox, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return Dimensions{}, errors.New("svg has no usable width/height or viewBox")
	}
	vw, werr := strconv.ParseFloat(fields[2], 64)
	vh, herr := strconv.ParseFloat(fields[3], 64)
	if werr != nil || herr != nil {
		return Dimensions{}, fmt.Errorf("invalid svg viewBox %q", viewBox)
	}
	return Dimensions{Width: roundPixels(vw), Height: roundPixels(vh)}, nil
}

func parseSVGLength(value string) (int, bool) {
	value = strings.TrimSpace(value)
	value = strings.TrimSuffix(value, "px")
	if value == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return roundPixels(f), true
}

func roundPixels(f float64) int {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(math.Round(f))
}
