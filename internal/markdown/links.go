package markdown

import (
	"net/url"
	"strings"

	"github.com/gomarkdown/markdown/ast"
)

// rewriteLinks points relative targets at the chapter asset prefix, turns
// absolute links to our own origin into site paths, and opens everything
// else in a new tab.
func rewriteLinks(doc ast.Node, opts Options) {
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		switch typedNode := node.(type) {
		case *ast.Link:
			href := withAssetPrefix(string(typedNode.Destination), opts.AssetPrefix)
			href, sameSite := siteRelative(href, opts.RootURL)
			typedNode.Destination = []byte(href)
			typedNode.AdditionalAttributes = linkAttributes(typedNode.AdditionalAttributes, sameSite || !isAbsolute(href))
		case *ast.Image:
			typedNode.Destination = []byte(withAssetPrefix(string(typedNode.Destination), opts.AssetPrefix))
		}

		return ast.GoToNext
	})
}

func withAssetPrefix(href string, prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if href == "" || prefix == "" || isAbsolute(href) {
		return href
	}
	if strings.HasPrefix(href, "/") || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "?") {
		return href
	}

	return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(href, "./")
}

func isAbsolute(href string) bool {
	if strings.HasPrefix(href, "//") {
		return true
	}

	parsed, err := url.Parse(href)
	return err == nil && parsed.Scheme != ""
}

func siteRelative(href string, rootURL string) (string, bool) {
	if rootURL == "" || !strings.HasPrefix(href, rootURL) {
		return href, false
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href, true
	}

	relative := parsed.Path
	if relative == "" {
		relative = "/"
	}
	if parsed.RawQuery != "" {
		relative += "?" + parsed.RawQuery
	}
	if parsed.Fragment != "" {
		relative += "#" + parsed.Fragment
	}

	return relative, true
}

func linkAttributes(existing []string, local bool) []string {
	attrs := make([]string, 0, len(existing)+2)
	for _, attr := range existing {
		name := strings.ToLower(strings.TrimSpace(attr))
		if strings.HasPrefix(name, "target=") || strings.HasPrefix(name, "rel=") {
			continue
		}
		attrs = append(attrs, attr)
	}

	if local {
		return attrs
	}
	return append(attrs, `target="_blank"`, `rel="noopener noreferrer"`)
}
