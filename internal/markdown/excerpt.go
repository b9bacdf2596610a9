package markdown

import (
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown/ast"
)

const lastGoodBreakRatio = 0.8

// Excerpt returns up to maxChars runes of the chapter's readable text, cut on
// a word boundary when one is close enough. Code blocks, images, tables and
// raw HTML are left out.
func Excerpt(input string, maxChars int) string {
	if maxChars < 1 || strings.TrimSpace(input) == "" {
		return ""
	}

	runes := []rune(plainText(parse(input)))
	if len(runes) <= maxChars {
		return string(runes)
	}

	cut := maxChars
	for idx := maxChars - 1; idx >= int(float64(maxChars)*lastGoodBreakRatio); idx-- {
		if unicode.IsSpace(runes[idx]) {
			cut = idx
			break
		}
	}

	truncated := strings.TrimSpace(string(runes[:cut]))
	if truncated == "" {
		truncated = strings.TrimSpace(string(runes[:maxChars]))
	}
	return truncated + "..."
}

func plainText(doc ast.Node) string {
	var out strings.Builder
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		switch typedNode := node.(type) {
		case *ast.CodeBlock, *ast.Image, *ast.Table, *ast.HTMLBlock, *ast.HTMLSpan, *ast.HorizontalRule:
			return ast.SkipChildren
		case *ast.Text:
			out.Write(typedNode.Literal)
		case *ast.Code:
			out.Write(typedNode.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			out.WriteByte(' ')
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if !entering {
				out.WriteByte(' ')
			}
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(out.String()), " ")
}
