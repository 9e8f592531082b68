// Package kb loads knowledge-base passages from a directory of text files.
package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/SohamAjmera/Agent-Pipeline/internal/domain"
)

// Load reads every .txt file under dir into a Document. The document id is
// the file name without its extension. Files that are empty after trimming
// whitespace are skipped. Results are ordered by file name so that downstream
// retrieval tie-breaks are reproducible.
func Load(dir string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read kb dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]domain.Document, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read kb file %s: %w", name, err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			continue
		}
		docs = append(docs, domain.Document{
			ID:   strings.TrimSuffix(name, filepath.Ext(name)),
			Text: text,
		})
	}
	return docs, nil
}
