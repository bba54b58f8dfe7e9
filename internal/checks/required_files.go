package checks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spboyer/dircheck/internal/report"
)

// errRequiredFilesNoRules is returned when the check is configured without any rule.
const errRequiredFilesNoRules = "required-files: at least one of 'must_exist', 'must_not_exist' or 'content_patterns' is required"

func init() {
	Register(Definition{
		ID:          "required-files",
		Description: "Files that must (or must not) exist, and patterns their content must match",
		Factory:     newRequiredFiles,
	})
}

// ContentPattern holds regex patterns matched against one file's content.
type ContentPattern struct {
	Path         string   `mapstructure:"path"`
	MustMatch    []string `mapstructure:"must_match"`
	MustNotMatch []string `mapstructure:"must_not_match"`
}

// RequiredFilesArgs holds the options of the required-files check.
type RequiredFilesArgs struct {
	// MustExist lists globs (relative to the directory) that must match at least one file.
	MustExist []string `mapstructure:"must_exist"`
	// MustNotExist lists globs that must not match any file.
	MustNotExist []string `mapstructure:"must_not_exist"`
	// ContentPatterns defines regex patterns to match against file contents.
	ContentPatterns []ContentPattern `mapstructure:"content_patterns"`
}

type compiledPattern struct {
	path         string
	mustMatch    []*regexp.Regexp
	mustNotMatch []*regexp.Regexp
}

type requiredFiles struct {
	mustExist    []string
	mustNotExist []string
	patterns     []compiledPattern
}

func newRequiredFiles(opts Options) (Check, error) {
	var args RequiredFilesArgs
	if err := DecodeOptions(opts, &args); err != nil {
		return nil, fmt.Errorf("required-files: %w", err)
	}
	if len(args.MustExist) == 0 && len(args.MustNotExist) == 0 && len(args.ContentPatterns) == 0 {
		return nil, errors.New(errRequiredFilesNoRules)
	}

	var errs []error
	for _, p := range append(append([]string{}, args.MustExist...), args.MustNotExist...) {
		if err := validateRelPath(p); err != nil {
			errs = append(errs, err)
		}
		if _, err := filepath.Match(p, ""); err != nil {
			errs = append(errs, fmt.Errorf("invalid glob %q: %w", p, err))
		}
	}

	rf := &requiredFiles{mustExist: args.MustExist, mustNotExist: args.MustNotExist}
	for _, cp := range args.ContentPatterns {
		if err := validateRelPath(cp.Path); err != nil {
			errs = append(errs, err)
			continue
		}
		c := compiledPattern{path: cp.Path}
		c.mustMatch = compileAll(cp.Path, "must_match", cp.MustMatch, &errs)
		c.mustNotMatch = compileAll(cp.Path, "must_not_match", cp.MustNotMatch, &errs)
		rf.patterns = append(rf.patterns, c)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return RunFunc(rf.run), nil
}

func compileAll(path, kind string, patterns []string, errs *[]error) []*regexp.Regexp {
	var out []*regexp.Regexp
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid '%s' regex pattern %q for file %s: %w", kind, p, path, err))
			continue
		}
		out = append(out, re)
	}
	return out
}

func (rf *requiredFiles) run(ctx context.Context, dir string) (report.Report, error) {
	if err := requireDir(dir); err != nil {
		return nil, err
	}

	var items []report.Finding
	for _, pattern := range rf.mustExist {
		matches, _ := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
		if len(matches) == 0 {
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     pattern,
				Message:  "must exist but not found",
			})
		}
	}

	for _, pattern := range rf.mustNotExist {
		matches, _ := filepath.Glob(filepath.Join(dir, filepath.FromSlash(pattern)))
		for _, m := range matches {
			rel, _ := filepath.Rel(dir, m)
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     filepath.ToSlash(rel),
				Message:  "must not exist but found",
			})
		}
	}

	for _, cp := range rf.patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items = append(items, cp.check(dir)...)
	}

	if len(items) == 0 {
		return nil, nil
	}
	return &report.Findings{Title: "Required files", Items: items}, nil
}

func (cp compiledPattern) check(dir string) []report.Finding {
	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(cp.path)))
	if err != nil {
		msg := fmt.Sprintf("failed to read file: %v", err)
		if errors.Is(err, os.ErrNotExist) {
			msg = "file not found for content check"
		}
		return []report.Finding{{Severity: report.SeverityError, Path: cp.path, Message: msg}}
	}

	var items []report.Finding
	for _, re := range cp.mustMatch {
		if !re.Match(content) {
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     cp.path,
				Message:  fmt.Sprintf("missing expected pattern: %s", re),
			})
		}
	}
	for _, re := range cp.mustNotMatch {
		if re.Match(content) {
			items = append(items, report.Finding{
				Severity: report.SeverityError,
				Path:     cp.path,
				Message:  fmt.Sprintf("contains forbidden pattern: %s", re),
			})
		}
	}
	return items
}
