package schemadoc

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Extensions lists the file extensions read by LoadDir.
var Extensions = []string{".yaml", ".yml"}

// IsDocumentFile reports whether path looks like a schema document:
// a YAML file whose name does not start with a dot.
func IsDocumentFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(base)))
}

// LoadDir parses every document under dir, recursively, skipping hidden
// entries. Files are read in lexical order. Any invalid document fails the
// whole load.
func LoadDir(ctx context.Context, dir string) ([]*Document, error) {
	var docs []*Document
	seen := make(map[string]string)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocumentFile(path) {
			return nil
		}

		doc, err := ParseFile(path)
		if err != nil {
			return err
		}
		if prev, dup := seen[doc.Name]; dup {
			return fmt.Errorf("%w: %w: %q in %s and %s", ErrInvalidDocument, ErrDuplicateDocument, doc.Name, prev, path)
		}
		seen[doc.Name] = path
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load schema documents from %q: %w", dir, err)
	}
	return docs, nil
}
