package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// Fallback colors used when a CSS color cannot be parsed.
const (
	DefaultStrokeHex = "111111"
	DefaultTextHex   = "111111"
	DefaultFillHex   = "9FCFFF"
)

// NormalizeHex converts a CSS color (#rgb, #rrggbb, bare hex, rgb(), rgba())
// to an uppercase 6-digit hex string. The fallback is returned when parsing fails.
func NormalizeHex(css, fallback string) string {
	s := strings.TrimSpace(css)
	if s == "" {
		return fallback
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "rgb") {
		if hex, ok := parseRGBFunc(lower); ok {
			return hex
		}
		return fallback
	}

	s = strings.TrimPrefix(s, "#")
	switch len(s) {
	case 3:
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	case 6:
	case 8:
		// #rrggbbaa: alpha is dropped.
		s = s[:6]
	default:
		return fallback
	}
	if _, err := strconv.ParseUint(s, 16, 32); err != nil {
		return fallback
	}
	return strings.ToUpper(s)
}

// parseRGBFunc parses rgb(r, g, b) and rgba(r, g, b, a). Components may be
// integers or percentages; values are clamped to 0..255.
func parseRGBFunc(s string) (string, bool) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return "", false
	}
	fn := strings.TrimSpace(s[:open])
	if fn != "rgb" && fn != "rgba" {
		return "", false
	}
	body := s[open+1 : len(s)-1]
	parts := strings.FieldsFunc(body, func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
	if len(parts) < 3 {
		return "", false
	}

	var rgb [3]int
	for i := 0; i < 3; i++ {
		p := parts[i]
		var v float64
		var err error
		if strings.HasSuffix(p, "%") {
			v, err = strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
			v = v * 255 / 100
		} else {
			v, err = strconv.ParseFloat(p, 64)
		}
		if err != nil {
			return "", false
		}
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		rgb[i] = int(v + 0.5)
	}
	return fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
}
