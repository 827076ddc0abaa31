package research

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Chunking bounds, in characters. Oversized sections are split, tiny
// fragments are dropped.
const (
	maxChunkSize = 2500
	minChunkSize = 100
)

// Indexer walks local quickstart checkouts and feeds the content index.
type Indexer struct {
	Index *Index
}

// NewIndexer creates an Indexer writing into ix.
func NewIndexer(ix *Index) *Indexer {
	return &Indexer{Index: ix}
}

// SyncQuickstart indexes one quickstart checkout directory, replacing any
// previously indexed content. Returns the number of chunks indexed.
func (in *Indexer) SyncQuickstart(quickstartID, dir string) (int, error) {
	var docs []Document

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}

		contentType := classifyFile(path)
		if contentType == "" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}

		switch contentType {
		case TypeReadme:
			for i, c := range chunkMarkdown(string(data)) {
				docs = append(docs, Document{
					QuickstartID: quickstartID,
					FilePath:     rel,
					ChunkIndex:   i,
					ContentType:  contentType,
					Heading:      c.heading,
					Content:      c.content,
				})
			}
		default:
			for i, text := range splitBySize(string(data), maxChunkSize) {
				docs = append(docs, Document{
					QuickstartID: quickstartID,
					FilePath:     rel,
					ChunkIndex:   i,
					ContentType:  contentType,
					Content:      text,
				})
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := in.Index.ReplaceQuickstart(quickstartID, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// classifyFile maps a file path to a content type, or "" to skip it.
func classifyFile(path string) string {
	base := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(base)

	switch {
	case strings.HasPrefix(base, "readme") && ext == ".md":
		return TypeReadme
	case base == "values.yaml" || base == "values.yml":
		return TypeHelmValues
	case base == "chart.yaml" || base == "chart.yml":
		return TypeHelmChart
	case ext == ".ipynb":
		return TypeNotebook
	case ext == ".py" || ext == ".go" || ext == ".js" || ext == ".ts" || ext == ".sh":
		return TypeCode
	default:
		return ""
	}
}

type markdownChunk struct {
	heading string
	content string
}

var headerRe = regexp.MustCompile(`^(#{1,4})\s+(.+)$`)

// chunkMarkdown splits markdown at headers (h1 through h4), keeping each
// section as one chunk. Sections over the size limit are split further, and
// fragments below the minimum are dropped.
func chunkMarkdown(content string) []markdownChunk {
	var chunks []markdownChunk
	var heading string
	var buf []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		buf = buf[:0]
		if len(text) < minChunkSize {
			return
		}
		for _, part := range splitBySize(text, maxChunkSize) {
			chunks = append(chunks, markdownChunk{heading: heading, content: part})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			heading = strings.TrimSpace(m[2])
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return chunks
}

// splitBySize breaks text into pieces of at most max characters, splitting on
// line boundaries where possible.
func splitBySize(text string, max int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= max {
		return []string{text}
	}

	var parts []string
	var cur strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if cur.Len() > 0 && cur.Len()+len(line)+1 > max {
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
		// A single line longer than max is kept whole rather than cut
		// mid-token.
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		parts = append(parts, s)
	}
	return parts
}
