package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Theme token typeface references. Slide content uses these placeholders to
// defer to the theme's default latin fonts.
const (
	MinorFontToken = "+mn-lt"
	MajorFontToken = "+mj-lt"
)

// ThemeFonts holds the theme's default latin typefaces. An empty string
// means the theme does not declare that slot.
type ThemeFonts struct {
	MajorLatin string
	MinorLatin string
}

// ParseThemeFonts extracts the major and minor latin typefaces from a theme
// part. Nil input yields the zero value; malformed XML is an error.
func ParseThemeFonts(data []byte) (ThemeFonts, error) {
	var tf ThemeFonts
	if len(data) == 0 {
		return tf, nil
	}

	var theme themeXML
	if err := xml.Unmarshal(data, &theme); err != nil {
		return tf, fmt.Errorf("parsing theme: %w", err)
	}

	fs := theme.ThemeElements.FontScheme
	if fs.MajorFont.Latin != nil {
		tf.MajorLatin = fs.MajorFont.Latin.Typeface
	}
	if fs.MinorFont.Latin != nil {
		tf.MinorLatin = fs.MinorFont.Latin.Typeface
	}
	return tf, nil
}

// IsThemeToken reports whether a typeface string is a theme token rather
// than a literal face name.
func IsThemeToken(typeface string) bool {
	return strings.HasPrefix(typeface, "+")
}

// Resolve maps a theme token to a literal typeface. Only the minor and major
// latin tokens resolve, and only when the theme declares the matching slot.
// Any other token, or a token whose slot is absent, does not resolve.
func (t ThemeFonts) Resolve(token string) (string, bool) {
	switch token {
	case MinorFontToken:
		if t.MinorLatin != "" {
			return t.MinorLatin, true
		}
	case MajorFontToken:
		if t.MajorLatin != "" {
			return t.MajorLatin, true
		}
	}
	return "", false
}
