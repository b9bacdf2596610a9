package markdown

import (
	stdhtml "html"
	"html/template"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	md "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Options control link rewriting and code highlighting inside a chapter.
type Options struct {
	// RootURL is the public origin; absolute links under it become site-relative.
	RootURL string
	// AssetPrefix is prepended to relative link and image targets.
	AssetPrefix string
	// CodeLanguage highlights fenced blocks that carry no language tag.
	CodeLanguage string
}

func parse(input string) ast.Node {
	return parser.NewWithExtensions(parser.CommonExtensions).Parse([]byte(input))
}

// ToHTML renders chapter Markdown. Raw HTML in the source is dropped.
func ToHTML(input string, opts Options) template.HTML {
	if strings.TrimSpace(input) == "" {
		return template.HTML("")
	}

	doc := parse(input)
	rewriteLinks(doc, opts)

	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags:          mdhtml.CommonFlags | mdhtml.SkipHTML,
		RenderNodeHook: codeHook(strings.ToLower(strings.TrimSpace(opts.CodeLanguage))),
	})

	return template.HTML(md.Render(doc, renderer))
}

func codeHook(defaultLanguage string) mdhtml.RenderNodeFunc {
	return func(writer io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		if !entering {
			return ast.GoToNext, false
		}

		switch typedNode := node.(type) {
		case *ast.CodeBlock:
			language := codeLanguage(typedNode.Info)
			if language == "" {
				language = defaultLanguage
			}
			renderCodeBlock(writer, string(typedNode.Literal), language)
			return ast.SkipChildren, true
		case *ast.Code:
			_, _ = io.WriteString(writer, `<code class="inline-code">`)
			_, _ = io.WriteString(writer, stdhtml.EscapeString(string(typedNode.Literal)))
			_, _ = io.WriteString(writer, `</code>`)
			return ast.SkipChildren, true
		default:
			return ast.GoToNext, false
		}
	}
}

func renderCodeBlock(writer io.Writer, code string, language string) {
	iterator, err := pickLexer(language, code).Tokenise(nil, code)
	if err == nil {
		err = chromahtml.New(chromahtml.WithClasses(true)).Format(writer, styles.Fallback, iterator)
	}
	if err != nil {
		_, _ = io.WriteString(writer, `<pre class="chroma"><code>`)
		_, _ = io.WriteString(writer, stdhtml.EscapeString(code))
		_, _ = io.WriteString(writer, `</code></pre>`)
	}
}

func pickLexer(language string, code string) chroma.Lexer {
	if language != "" {
		if lexer := lexers.Get(language); lexer != nil {
			return lexer
		}
	}
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer
	}
	return lexers.Fallback
}

func codeLanguage(info []byte) string {
	fields := strings.Fields(string(info))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}
