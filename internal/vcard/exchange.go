package vcard

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ImportText is the outcome of asking the exchange collaborator for raw
// interchange text.
type ImportText struct {
	Cancelled bool
	Text      string
}

// ExportOutcome is the outcome of delivering export text.
type ExportOutcome struct {
	Cancelled bool
	Location  string
}

// Exchange abstracts where interchange text comes from and goes to: a file
// picker in a desktop shell, plain paths in the CLI. Both calls are
// single-shot and awaited to completion.
type Exchange interface {
	RequestImportText() (ImportText, error)
	DeliverExportText(text string) (ExportOutcome, error)
}

// FileExchange reads and writes interchange text at fixed paths. The path
// "-" selects stdin/stdout; an empty path means the user opted out, which
// surfaces as a cancelled outcome rather than an error.
type FileExchange struct {
	ImportPath string
	ExportPath string
}

func (f FileExchange) RequestImportText() (ImportText, error) {
	path := strings.TrimSpace(f.ImportPath)
	if path == "" {
		return ImportText{Cancelled: true}, nil
	}
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return ImportText{}, fmt.Errorf("read stdin: %w", err)
		}
		return ImportText{Text: string(b)}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return ImportText{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ImportText{Text: string(b)}, nil
}

func (f FileExchange) DeliverExportText(text string) (ExportOutcome, error) {
	path := strings.TrimSpace(f.ExportPath)
	if path == "" {
		return ExportOutcome{Cancelled: true}, nil
	}
	if path == "-" {
		if _, err := io.WriteString(os.Stdout, text); err != nil {
			return ExportOutcome{}, fmt.Errorf("write stdout: %w", err)
		}
		return ExportOutcome{Location: "stdout"}, nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return ExportOutcome{}, fmt.Errorf("write %s: %w", path, err)
	}
	return ExportOutcome{Location: path}, nil
}
