package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/compass/internal/project"
)

// docStampRe matches the timestamp a generated document's name encodes,
// plus the collision suffix uniquePath may have added.
var docStampRe = regexp.MustCompile(`-(\d{8}-\d{6})(?:-(\d+))?\.md$`)

// writeSpecDocument persists a rendered document under a fresh
// timestamp-qualified name. Prior documents are never overwritten, so
// repeated invocations of the same pattern accumulate.
func (e *Engine) writeSpecDocument(slug, patternName, content string) (string, error) {
	dir := project.SpecificationDir(e.root, slug)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating specification directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s.md", patternName, project.FileStamp())
	path := uniquePath(filepath.Join(dir, name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing specification document: %w", err)
	}
	return path, nil
}

// specDocuments lists a project's specification documents, oldest
// first. Generated names order by their embedded timestamp; anything
// else (hand-added documents) sorts before them by name.
func (e *Engine) specDocuments(slug string) ([]string, error) {
	entries, err := os.ReadDir(project.SpecificationDir(e.root, slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading specification directory: %w", err)
	}

	type doc struct {
		name  string
		stamp string
		seq   int
	}
	var docs []doc
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		d := doc{name: entry.Name()}
		if m := docStampRe.FindStringSubmatch(entry.Name()); m != nil {
			d.stamp = m[1]
			if m[2] != "" {
				d.seq, _ = strconv.Atoi(m[2])
			}
		}
		docs = append(docs, d)
	}

	sort.Slice(docs, func(i, j int) bool {
		if docs[i].stamp != docs[j].stamp {
			return docs[i].stamp < docs[j].stamp
		}
		if docs[i].seq != docs[j].seq {
			return docs[i].seq < docs[j].seq
		}
		return docs[i].name < docs[j].name
	})

	names := make([]string, len(docs))
	for i, d := range docs {
		names[i] = d.name
	}
	return names, nil
}

// newestSpecContent reads the most recently generated document, or ""
// when the project has none.
func (e *Engine) newestSpecContent(slug string) (string, error) {
	docs, err := e.specDocuments(slug)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Join(project.SpecificationDir(e.root, slug), docs[len(docs)-1]))
	if err != nil {
		return "", fmt.Errorf("reading specification document: %w", err)
	}
	return string(data), nil
}

// uniquePath returns path unchanged when free, otherwise the first
// numbered variant that is. Guards against two documents generated
// within the same clock second.
func uniquePath(path string) string {
	if _, err := os.Stat(path); err != nil {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", base, n, ext)
		if _, err := os.Stat(candidate); err != nil {
			return candidate
		}
	}
}
