package llm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fnlgen/internal/roster"
)

var testBlock = roster.CourseBlock{
	CourseNo: "ABC123",
	Period:   roster.Period{Start: "2025-09-01", End: "2025-09-05"},
	Lines: []string{
		"コースNo: ABC123",
		"2025-09-01〜2025-09-05",
		"特別依頼: ハネムーンです",
	},
}

func TestLoadMasterPrompt_Fallback(t *testing.T) {
	if got := LoadMasterPrompt(""); got != defaultMasterPrompt {
		t.Error("empty path should return the builtin prompt")
	}
	if got := LoadMasterPrompt(filepath.Join(t.TempDir(), "missing.txt")); got != defaultMasterPrompt {
		t.Error("missing file should return the builtin prompt")
	}
}

func TestLoadMasterPrompt_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("カスタムプロンプト"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if got := LoadMasterPrompt(path); got != "カスタムプロンプト" {
		t.Errorf("LoadMasterPrompt = %q", got)
	}
}

func TestBuildExtractionPrompt(t *testing.T) {
	got := BuildExtractionPrompt("MASTER", testBlock)

	for _, want := range []string{
		"MASTER",
		"コースNo: ABC123",
		"期間: 2025-09-01〜2025-09-05",
		"1: コースNo: ABC123",
		"3: 特別依頼: ハネムーンです",
		`{"courses": [...]}`,
		"座席・並び席・保険・返金・金銭・旅券・JR・社内進行",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildReviewPrompt(t *testing.T) {
	doc := map[string]any{
		"courses": []any{map[string]any{"courseNo": "ABC123"}},
	}
	got, err := BuildReviewPrompt(testBlock, doc)
	if err != nil {
		t.Fatalf("BuildReviewPrompt failed: %v", err)
	}

	for _, want := range []string{
		"2: 2025-09-01〜2025-09-05",
		`"courseNo": "ABC123"`,
		"celebration に反映されているか",
		"[出力形式]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("review prompt missing %q", want)
		}
	}
}

func TestNumberedLines_Empty(t *testing.T) {
	if got := numberedLines(nil); got != "" {
		t.Errorf("numberedLines(nil) = %q, want empty", got)
	}
}
