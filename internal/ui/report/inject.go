package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"incdeps/internal/core/errors"
)

// InjectMermaid replaces the block between
//
//	<!-- incdeps:<marker>:start --> and <!-- incdeps:<marker>:end -->
//
// in a markdown document with a fenced mermaid diagram. The file is rewritten
// through a temp file in the same directory.
func InjectMermaid(filePath, marker, diagram string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read markdown file %q: %w", filePath, err)
	}

	block := "```mermaid\n" + strings.TrimRight(diagram, "\r\n") + "\n```"
	next, err := ReplaceBetweenMarkers(string(content), marker, block)
	if err != nil {
		return errors.AddContext(err, errors.CtxPath, filePath)
	}
	if next == string(content) {
		return nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".incdeps-inject-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %q: %w", filePath, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(next)
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp markdown file %q: %w", tmpName, writeErr)
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace markdown file %q: %w", filePath, err)
	}
	return nil
}

// ReplaceBetweenMarkers swaps the text between one start and one end marker,
// keeping the markers and the document's line ending style.
func ReplaceBetweenMarkers(content, marker, replacement string) (string, error) {
	marker = strings.TrimSpace(marker)
	if marker == "" {
		return "", errors.New(errors.CodeValidationError, "markdown marker must not be empty")
	}

	newline := "\n"
	if strings.Contains(content, "\r\n") {
		newline = "\r\n"
	}

	start := fmt.Sprintf("<!-- incdeps:%s:start -->", marker)
	end := fmt.Sprintf("<!-- incdeps:%s:end -->", marker)

	if strings.Count(content, start) != 1 || strings.Count(content, end) != 1 {
		return "", errors.Newf(errors.CodeValidationError, "markdown marker %q must appear exactly once for start and end", marker)
	}

	startIdx := strings.Index(content, start)
	endIdx := strings.Index(content, end)
	if endIdx < startIdx {
		return "", errors.Newf(errors.CodeValidationError, "invalid marker order for %q", marker)
	}

	prefix := content[:startIdx+len(start)]
	suffix := content[endIdx:]
	body := strings.ReplaceAll(strings.TrimRight(replacement, "\r\n"), "\r\n", "\n")
	body = strings.ReplaceAll(body, "\n", newline)
	return prefix + newline + body + newline + suffix, nil
}
