// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TextReporter writes one human-readable line per finding to stdout, or
// to <outputDir>/findings.txt when outputDir is non-empty.
type TextReporter struct {
	Writer io.Writer
}

func (r TextReporter) Emit(findings []Finding, outputDir string) error {
	w, closeFn, err := destination(r.Writer, outputDir, "findings.txt")
	if err != nil {
		return err
	}
	defer closeFn()

	for _, f := range findings {
		if _, err := fmt.Fprintf(w, "%s: %s [%s] %s\n", locationString(f), f.Severity, f.RuleID, f.Message); err != nil {
			return err
		}
	}
	return nil
}

func destination(w io.Writer, outputDir, name string) (io.Writer, func(), error) {
	if w != nil {
		return w, func() {}, nil
	}
	if outputDir == "" {
		return os.Stdout, func() {}, nil
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(outputDir, name))
	if err != nil {
		return nil, nil, fmt.Errorf("create report file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
