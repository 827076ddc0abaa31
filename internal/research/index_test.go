package research

import (
	"path/filepath"
	"testing"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "research.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func seedIndex(t *testing.T, ix *Index) {
	t.Helper()
	docs := []Document{
		{FilePath: "README.md", ChunkIndex: 0, ContentType: TypeReadme,
			Heading: "Overview", Content: "A retrieval augmented generation chatbot using vLLM for serving."},
		{FilePath: "README.md", ChunkIndex: 1, ContentType: TypeReadme,
			Heading: "Deployment", Content: "Deploy with Helm on OpenShift."},
		{FilePath: "app/main.py", ChunkIndex: 0, ContentType: TypeCode,
			Content: "def retrieve(query): pass  # vector retrieval"},
	}
	if err := ix.ReplaceQuickstart("rag-chatbot", docs); err != nil {
		t.Fatalf("ReplaceQuickstart: %v", err)
	}

	other := []Document{
		{FilePath: "README.md", ChunkIndex: 0, ContentType: TypeReadme,
			Heading: "Overview", Content: "Fraud detection scoring pipeline with model serving."},
	}
	if err := ix.ReplaceQuickstart("fraud-detection", other); err != nil {
		t.Fatalf("ReplaceQuickstart: %v", err)
	}
}

func TestSearchRanksByKeywordCoverage(t *testing.T) {
	ix := openTestIndex(t)
	seedIndex(t, ix)

	docs, err := ix.Search("retrieval chatbot vLLM", SearchOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("no results")
	}
	if docs[0].QuickstartID != "rag-chatbot" || docs[0].Heading != "Overview" {
		t.Errorf("top result = %+v", docs[0])
	}
	if docs[0].Score != 1.0 {
		t.Errorf("top score = %v", docs[0].Score)
	}
	for i := 1; i < len(docs); i++ {
		if docs[i].Score > docs[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}

func TestSearchFilters(t *testing.T) {
	ix := openTestIndex(t)
	seedIndex(t, ix)

	docs, err := ix.Search("serving", SearchOptions{
		Limit:         5,
		QuickstartIDs: []string{"fraud-detection"},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, d := range docs {
		if d.QuickstartID != "fraud-detection" {
			t.Errorf("quickstart filter leaked: %+v", d)
		}
	}

	docs, err = ix.Search("retrieval", SearchOptions{
		Limit:        5,
		ContentTypes: []string{TypeCode},
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(docs) != 1 || docs[0].ContentType != TypeCode {
		t.Errorf("content type filter: %+v", docs)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := openTestIndex(t)

	docs, err := ix.Search("   ", SearchOptions{})
	if err != nil || docs != nil {
		t.Errorf("empty query: docs=%v err=%v", docs, err)
	}
}

func TestReadmeChunksOrdered(t *testing.T) {
	ix := openTestIndex(t)
	seedIndex(t, ix)

	chunks, err := ix.ReadmeChunks("rag-chatbot")
	if err != nil {
		t.Fatalf("ReadmeChunks: %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	if chunks[0].ChunkIndex != 0 || chunks[1].ChunkIndex != 1 {
		t.Errorf("chunks out of order: %+v", chunks)
	}
}

func TestReplaceQuickstartClearsOldContent(t *testing.T) {
	ix := openTestIndex(t)
	seedIndex(t, ix)

	if err := ix.ReplaceQuickstart("rag-chatbot", []Document{
		{FilePath: "README.md", ContentType: TypeReadme, Content: "Entirely new readme content here."},
	}); err != nil {
		t.Fatalf("ReplaceQuickstart: %v", err)
	}

	stats, err := ix.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["rag-chatbot"] != 1 {
		t.Errorf("rag-chatbot count = %d", stats["rag-chatbot"])
	}
	if stats["fraud-detection"] != 1 {
		t.Errorf("other quickstart disturbed: %d", stats["fraud-detection"])
	}
}
