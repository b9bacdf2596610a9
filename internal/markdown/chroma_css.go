package markdown

import (
	"bytes"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

const (
	chapterLightStyle = "friendly"
	chapterDarkStyle  = "monokai"
)

// Rules for markup produced by codeHook that chroma styles do not cover.
const chapterBaseCSS = `.chapter pre.chroma { overflow-x: auto; padding: 0.75rem 1rem; border-radius: 4px; }
.chapter code.inline-code { padding: 0.1em 0.3em; border-radius: 3px; background: rgba(127, 127, 127, 0.15); }
.chapter img { max-width: 100%; }
`

var (
	chapterCSSOnce sync.Once
	chapterCSS     template.CSS
)

// ChromaCSS returns the chapter stylesheet: base rules, the light highlight
// style, and the dark style behind prefers-color-scheme.
func ChromaCSS() template.CSS {
	chapterCSSOnce.Do(func() {
		chapterCSS = template.CSS(buildChapterCSS())
	})

	return chapterCSS
}

func buildChapterCSS() string {
	var out strings.Builder
	out.WriteString(chapterBaseCSS)
	out.WriteString(highlightCSS(chapterLightStyle))

	if dark := highlightCSS(chapterDarkStyle); dark != "" {
		out.WriteString("@media (prefers-color-scheme: dark) {\n")
		out.WriteString(dark)
		out.WriteString("}\n")
	}

	return out.String()
}

func highlightCSS(styleName string) string {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	var buffer bytes.Buffer
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buffer, style); err != nil {
		return ""
	}

	return buffer.String()
}
