package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spboyer/dircheck/internal/report"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

func init() {
	Register(Definition{
		ID:          "markdown-links",
		Description: "Relative links in markdown files point at files inside the directory",
		Factory:     newMarkdownLinks,
		Stylesheet:  "code { background: #f6f8fa; padding: 0 .2em; }",
	})
}

// MarkdownLinksArgs holds the options of the markdown-links check.
type MarkdownLinksArgs struct {
	// Workers bounds how many files are parsed at once.
	Workers int `mapstructure:"workers"`
	// Strict also flags links whose target is a directory.
	Strict bool `mapstructure:"strict"`
}

type markdownLinks struct {
	workers int
	strict  bool
}

func newMarkdownLinks(opts Options) (Check, error) {
	var args MarkdownLinksArgs
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("markdown-links: %w", err)
	}
	if args.Workers <= 0 {
		args.Workers = defaultWorkers
	}
	ml := &markdownLinks{workers: args.Workers, strict: args.Strict}
	return RunFunc(ml.run), nil
}

func (ml *markdownLinks) run(ctx context.Context, dir string) (report.Report, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	files, err := walkFiles(dir, func(rel string) bool {
		ext := strings.ToLower(filepath.Ext(rel))
		return ext == ".md" || ext == ".mdx"
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	// One slot per file keeps findings in walk order.
	perFile := make([][]report.Finding, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ml.workers)
	for i, rel := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("reading %s: %w", rel, err)
			}
			perFile[i] = ml.checkFile(dir, rel, extractLinks(source))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var items []report.Finding
	for _, f := range perFile {
		items = append(items, f...)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &report.Findings{Title: "Markdown links", Items: items}, nil
}

func (ml *markdownLinks) checkFile(dir, rel string, links []string) []report.Finding {
	var items []report.Finding
	sourceDir := filepath.Dir(filepath.Join(dir, filepath.FromSlash(rel)))

	for _, target := range links {
		if shouldSkipLink(target) {
			continue
		}
		local := stripFragment(target)
		if local == "" {
			continue // fragment-only
		}

		resolved := filepath.Clean(filepath.Join(sourceDir, filepath.FromSlash(local)))
		if !isWithinDir(resolved, dir) {
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("link %s escapes the directory", target),
			})
			continue
		}

		info, err := os.Stat(resolved)
		if err != nil {
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     rel,
				Message:  fmt.Sprintf("link %s: target does not exist", target),
			})
			continue
		}
		if info.IsDir() && ml.strict {
			items = append(items, report.Finding{
				Severity: report.SeverityWarning,
				Path:     rel,
				Message:  fmt.Sprintf("link %s: target is a directory, not a file", target),
			})
		}
	}
	return items
}

// extractLinks parses markdown and returns every link and image destination.
func extractLinks(source []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var links []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Link:
			links = append(links, string(v.Destination))
		case *ast.Image:
			links = append(links, string(v.Destination))
		}
		return ast.WalkContinue, nil
	})
	return links
}

// shouldSkipLink returns true for links that do not name a local file.
func shouldSkipLink(target string) bool {
	if strings.HasPrefix(target, "//") {
		return true
	}
	if i := strings.Index(target, ":"); i > 0 && !strings.ContainsAny(target[:i], "/.#") {
		return true // http:, https:, mailto: and friends
	}
	return false
}

// stripFragment removes the #fragment and ?query portions of a path.
func stripFragment(target string) string {
	if idx := strings.IndexAny(target, "#?"); idx >= 0 {
		return target[:idx]
	}
	return target
}
