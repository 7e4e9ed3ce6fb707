// # internal/engine/parser/parser.go
package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"incdeps/internal/core/errors"
	"incdeps/internal/shared/observability"
	"incdeps/internal/shared/util"
)

var (
	DefaultExtensions  = []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hh", ".hpp", ".hxx"}
	DefaultTestMarkers = []string{"test", "mock"}
)

var (
	includePattern = regexp.MustCompile(`^\s*#\s*include\s*[<"]([^>"]+)[>"]`)
	typePattern    = regexp.MustCompile(`\b(?:class|struct)\s+([A-Za-z_]\w*)`)
)

const maxLineBytes = 1024 * 1024

type Parser struct {
	extensions  map[string]bool
	testMarkers []string
}

func NewParser(extensions, testMarkers []string) *Parser {
	p := &Parser{extensions: make(map[string]bool, len(extensions))}
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		p.extensions[ext] = true
	}
	for _, marker := range testMarkers {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" {
			p.testMarkers = append(p.testMarkers, marker)
		}
	}
	sort.Strings(p.testMarkers)
	return p
}

func (p *Parser) SupportedExtensions() []string {
	return util.SortedKeys(p.extensions)
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

// IsTestFile reports whether the base name contains a test marker, ignoring case.
func (p *Parser) IsTestFile(path string) bool {
	base := strings.ToLower(util.BaseName(path))
	for _, marker := range p.testMarkers {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}

// ParseFile extracts include references and declared type names line by
// line. Only references that look like headers (contain ".h") are kept, so
// standard library includes such as <vector> never enter the graph.
func (p *Parser) ParseFile(name string, content []byte) (*File, error) {
	if !p.IsSupportedPath(name) {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported source extension"), errors.CtxPath, name)
	}

	start := time.Now()
	defer func() {
		observability.ParsingDuration.Observe(time.Since(start).Seconds())
	}()

	file := &File{
		Name:     util.NormalizePatternPath(name),
		ParsedAt: start.UTC(),
	}

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := sc.Text()
		if m := includePattern.FindStringSubmatch(line); m != nil {
			header := strings.TrimSpace(m[1])
			if strings.Contains(header, ".h") {
				file.IncludedHeaders = append(file.IncludedHeaders, header)
			}
			continue
		}
		for _, m := range typePattern.FindAllStringSubmatch(line, -1) {
			file.DefinedTypes = append(file.DefinedTypes, m[1])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	return file, nil
}
