// Package templgen compiles .templ files into Go using templ's generator.
package templgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a-h/templ/generator"
	"github.com/a-h/templ/parser/v2"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	sourceExt    = ".templ"
	outputSuffix = "_templ.go"
)

var (
	ErrNoSources = errors.New("no templ files found")
	ErrStale     = errors.New("generated templ output is out of date")
)

type Config struct {
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Paths lists .templ files or directories to scan.
	Paths []string
	// BasePath anchors the file names embedded in template errors.
	BasePath string
	// Check compares instead of writing.
	Check  bool
	Logger *zap.Logger
}

type Report struct {
	Generated []string
	Unchanged []string
	Stale     []string
}

func Run(cfg Config) (Report, error) {
	fsys := cfg.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	basePath := strings.TrimSpace(cfg.BasePath)
	if basePath == "" {
		basePath = "."
	}
	baseAbs, err := filepath.Abs(basePath)
	if err != nil {
		return Report{}, fmt.Errorf("resolve base path %q: %w", basePath, err)
	}

	sources, err := collectSources(fsys, cfg.Paths)
	if err != nil {
		return Report{}, err
	}
	if len(sources) == 0 {
		return Report{}, ErrNoSources
	}

	var report Report
	for _, source := range sources {
		generated, err := generate(fsys, source, baseAbs)
		if err != nil {
			return report, err
		}

		target := strings.TrimSuffix(source, sourceExt) + outputSuffix
		current, readErr := afero.ReadFile(fsys, target)
		if readErr == nil && bytes.Equal(current, generated) {
			report.Unchanged = append(report.Unchanged, target)
			continue
		}
		if readErr != nil && !errors.Is(readErr, os.ErrNotExist) {
			return report, fmt.Errorf("read %q: %w", target, readErr)
		}

		if cfg.Check {
			logger.Warn("stale templ output", zap.String("file", target))
			report.Stale = append(report.Stale, target)
			continue
		}
		if err := afero.WriteFile(fsys, target, generated, 0o644); err != nil {
			return report, fmt.Errorf("write %q: %w", target, err)
		}
		logger.Debug("generated", zap.String("file", target))
		report.Generated = append(report.Generated, target)
	}

	if len(report.Stale) > 0 {
		return report, fmt.Errorf("%w: %s", ErrStale, strings.Join(report.Stale, ", "))
	}
	return report, nil
}

func collectSources(fsys afero.Fs, paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	var sources []string
	add := func(name string) error {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		if _, ok := seen[abs]; !ok {
			seen[abs] = struct{}{}
			sources = append(sources, abs)
		}
		return nil
	}

	for _, root := range paths {
		info, err := fsys.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", root, err)
		}
		if !info.IsDir() {
			if filepath.Ext(root) != sourceExt {
				return nil, fmt.Errorf("file %q must have %s extension", root, sourceExt)
			}
			if err := add(root); err != nil {
				return nil, fmt.Errorf("resolve file %q: %w", root, err)
			}
			continue
		}

		walkErr := afero.Walk(fsys, root, func(name string, entry os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() || filepath.Ext(name) != sourceExt {
				return nil
			}
			return add(name)
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk path %q: %w", root, walkErr)
		}
	}

	sort.Strings(sources)
	return sources, nil
}

func generate(fsys afero.Fs, source string, baseAbs string) ([]byte, error) {
	raw, err := afero.ReadFile(fsys, source)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", source, err)
	}

	template, err := parser.ParseString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", source, err)
	}

	relName, err := filepath.Rel(baseAbs, source)
	if err != nil {
		return nil, fmt.Errorf("relative name for %q: %w", source, err)
	}

	var output bytes.Buffer
	if _, _, err := generator.Generate(template, &output, generator.WithFileName(filepath.ToSlash(relName))); err != nil {
		return nil, fmt.Errorf("generate %q: %w", source, err)
	}

	formatted, err := format.Source(output.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format output of %q: %w", source, err)
	}
	return formatted, nil
}
