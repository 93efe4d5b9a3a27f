package pipeline

import (
	"bufio"
	"encoding/base64"
	"encoding/xml"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// Kind is the kind of input document.
type Kind uint8

const (
	KindRaster Kind = iota
	KindVector
)

func (k Kind) String() string {
	if k == KindVector {
		return "vector"
	}
	return "raster"
}

// DetectKind returns the forced kind, if any, or infers it from the file
// name: only a .svg extension (case insensitive) denotes vector input.
func DetectKind(name string, forceSVG, forcePNG bool) Kind {
	switch {
	case forceSVG:
		return KindVector
	case forcePNG:
		return KindRaster
	case !isStdStream(name) && strings.EqualFold(filepath.Ext(name), ".svg"):
		return KindVector
	}
	return KindRaster
}

func formatMM(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func escapeAttr(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// WriteRasterEnvelope writes an SVG document of `width` x `height` mm
// whose only element is the raster image read from `raster`, embedded
// as a base64 data URI. The payload is streamed.
func WriteRasterEnvelope(w io.Writer, raster io.Reader, width, height float64, aspectRatio string) error {
	bw := bufio.NewWriter(w)
	ws, hs := formatMM(width), formatMM(height)
	bw.WriteString(`<svg width="` + ws + `mm" height="` + hs + `mm" viewBox="0 0 ` + ws + ` ` + hs + `" ` +
		`xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">` + "\n")
	bw.WriteString(`<image width="` + ws + `" height="` + hs + `" x="0" y="0" preserveAspectRatio="` +
		escapeAttr(aspectRatio) + `" xlink:href="data:image/png;base64,`)

	enc := base64.NewEncoder(base64.StdEncoding, bw)
	if _, err := io.Copy(enc, raster); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	bw.WriteString("\"/>\n</svg>\n")
	return bw.Flush()
}

// CopyVector copies an SVG document verbatim.
func CopyVector(w io.Writer, r io.Reader) error {
	_, err := io.Copy(w, r)
	return err
}
