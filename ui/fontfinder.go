package ui

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/adrg/sysfont"
	findfont "github.com/flopp/go-findfont"
	"github.com/jezek/xgbutil/xgraphics"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/font/opentype"

	log "github.com/sirupsen/logrus"
)

// findFont resolves a "name:size=N" config string to a usable face,
// falling back through go-findfont's name index, then sysfont's system
// scan, then a built-in bitmap face if nothing on the system matches,
// the way dwm-adjacent X11 window managers commonly resolve fonts.
func findFont(def string) font.Face {
	name, size := parseFontSize(def)

	fontPath, err := findfont.Find(name)
	if err != nil {
		log.WithField("font", def).Debug("findfont lookup failed, trying sysfont")
		return findFontFallback(def, size)
	}
	fontFile, err := os.Open(fontPath)
	if err != nil {
		return findFontFallback(def, size)
	}
	defer fontFile.Close()

	face, err := parseFontFace(fontFile, size)
	if err != nil {
		return findFontFallback(def, size)
	}
	return face
}

var fallbackFinder *sysfont.Finder

func findFontFallback(def string, size float64) font.Face {
	if fallbackFinder == nil {
		fallbackFinder = sysfont.NewFinder(nil)
	}

	fontDef := fallbackFinder.Match(def)
	if fontDef == nil {
		log.WithField("font", def).Warn("no system font matched, using built-in face")
		return inconsolata.Regular8x16
	}
	fontFile, err := os.Open(fontDef.Filename)
	if err != nil {
		return inconsolata.Regular8x16
	}
	defer fontFile.Close()

	face, err := parseFontFace(fontFile, size)
	if err != nil {
		return inconsolata.Regular8x16
	}
	return face
}

func parseFontFace(file io.Reader, size float64) (font.Face, error) {
	otf, err := xgraphics.ParseFont(file)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72})
}

func parseFontSize(def string) (string, float64) {
	i := strings.LastIndexByte(def, ':')
	if i == -1 {
		return def, 12
	}
	name, rest := def[:i], def[i+1:]
	rest = strings.TrimPrefix(rest, "size=")
	size, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return name, 12
	}
	return name, size
}
