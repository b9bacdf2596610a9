package framework

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

var dynamicSegmentNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// MatchPattern matches a request path against a pattern such as /[coursePage]/[themePage]
// and returns the dynamic segment values by name.
func MatchPattern(pattern string, requestPath string) (map[string]string, bool) {
	patternSegments := splitPathSegments(pattern)
	requestSegments := splitPathSegments(requestPath)
	if len(patternSegments) != len(requestSegments) {
		return nil, false
	}

	params := make(map[string]string, 2)
	for idx, patternSegment := range patternSegments {
		name, isParam, err := parseSegment(patternSegment)
		if err != nil {
			return nil, false
		}

		requestSegment := requestSegments[idx]
		if !isParam {
			if patternSegment != requestSegment {
				return nil, false
			}
			continue
		}

		params[name] = requestSegment
	}

	return params, true
}

// ThemeParamsParser builds a ParamsParser for a two-segment course/theme pattern.
func ThemeParamsParser(pattern string, courseParam string, themeParam string) ParamsParser[ThemeParams] {
	return func(requestPath string) (ThemeParams, bool) {
		params, ok := MatchPattern(pattern, requestPath)
		if !ok {
			return ThemeParams{}, false
		}

		course, theme := params[courseParam], params[themeParam]
		if course == "" || theme == "" {
			return ThemeParams{}, false
		}
		return ThemeParams{Course: course, Theme: theme}, true
	}
}

func parseSegment(segment string) (string, bool, error) {
	if strings.HasPrefix(segment, "[") || strings.HasSuffix(segment, "]") {
		if !strings.HasPrefix(segment, "[") || !strings.HasSuffix(segment, "]") {
			return "", false, fmt.Errorf("invalid wildcard segment %q", segment)
		}

		name := strings.TrimSpace(segment[1 : len(segment)-1])
		if !dynamicSegmentNamePattern.MatchString(name) {
			return "", false, fmt.Errorf("invalid wildcard name %q", name)
		}
		return name, true, nil
	}

	if strings.ContainsAny(segment, "[]") {
		return "", false, fmt.Errorf("invalid static segment %q", segment)
	}

	return "", false, nil
}

func splitPathSegments(raw string) []string {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	if cleaned == "/" {
		return []string{}
	}

	return strings.Split(strings.Trim(cleaned, "/"), "/")
}
