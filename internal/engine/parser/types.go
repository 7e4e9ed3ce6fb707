// # internal/engine/parser/types.go
package parser

import "time"

// File is one scanned source file: its name plus the header references and
// type names found on its lines, in source order.
type File struct {
	Name            string // slash path relative to the scan root
	Path            string // path on disk
	IncludedHeaders []string
	DefinedTypes    []string
	ParsedAt        time.Time
}

func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	c := *f
	c.IncludedHeaders = append([]string(nil), f.IncludedHeaders...)
	c.DefinedTypes = append([]string(nil), f.DefinedTypes...)
	return &c
}
