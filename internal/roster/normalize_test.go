package roster

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeLines_Empty(t *testing.T) {
	if got := NormalizeLines(""); len(got) != 0 {
		t.Errorf("NormalizeLines(\"\") = %v, want empty", got)
	}
	if got := NormalizeLines("\n\n   \n\t\n"); len(got) != 0 {
		t.Errorf("whitespace-only input = %v, want empty", got)
	}
}

func TestNormalizeLines_WidthFold(t *testing.T) {
	// Full-width digits, letters and colon fold to half-width.
	got := NormalizeLines("コースNo：ＡＢＣ１２３")
	want := []string{"コースNo:ABC123"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLines = %v, want %v", got, want)
	}
}

func TestNormalizeLines_CollapsesWhitespace(t *testing.T) {
	got := NormalizeLines("a  \t b　　c")
	want := []string{"a b c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLines = %v, want %v", got, want)
	}
}

func TestNormalizeLines_LineEndings(t *testing.T) {
	got := NormalizeLines("one\r\ntwo\rthree")
	want := []string{"one", "two", "three"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLines = %v, want %v", got, want)
	}
}

func TestNormalizeLines_DropsDecorationAndPageMarkers(t *testing.T) {
	raw := "氏名 太郎\n------\n____\n====\nPage 1/3\npage 2/3\n---\n氏名 次郎"
	got := NormalizeLines(raw)
	// "---" is only three characters, so it survives.
	want := []string{"氏名 太郎", "---", "氏名 次郎"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeLines = %v, want %v", got, want)
	}
}

func TestFindCourseBlocks_SingleBlock(t *testing.T) {
	lines := []string{"コースNo: ABC123", "2025-09-01〜2025-09-05"}
	blocks := FindCourseBlocks(lines)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.CourseNo != "ABC123" {
		t.Errorf("CourseNo = %q, want %q", b.CourseNo, "ABC123")
	}
	if b.Period.Start != "2025-09-01" || b.Period.End != "2025-09-05" {
		t.Errorf("Period = %+v, want 2025-09-01 / 2025-09-05", b.Period)
	}
	if len(b.Lines) != 2 {
		t.Errorf("got %d lines, want 2", len(b.Lines))
	}
}

func TestFindCourseBlocks_DiscardsHeaderLines(t *testing.T) {
	lines := []string{
		"旅行会社ロスター抽出",
		"発行日 2025-08-01",
		"コースNo: ABC123",
		"参加者 太郎",
	}
	blocks := FindCourseBlocks(lines)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].CourseNo != "ABC123" {
		t.Errorf("CourseNo = %q, want ABC123", blocks[0].CourseNo)
	}
	for _, ln := range blocks[0].Lines {
		if ln == "旅行会社ロスター抽出" || ln == "発行日 2025-08-01" {
			t.Errorf("header line %q leaked into block", ln)
		}
	}
}

func TestFindCourseBlocks_OrderAndNoEmptyIdentifier(t *testing.T) {
	lines := []string{
		"Course: A-1",
		"x",
		"コースNo: B2",
		"y",
		"Course C3",
	}
	blocks := FindCourseBlocks(lines)

	if len(blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(blocks))
	}
	wantOrder := []string{"A-1", "B2", "C3"}
	for i, want := range wantOrder {
		if blocks[i].CourseNo != want {
			t.Errorf("blocks[%d].CourseNo = %q, want %q", i, blocks[i].CourseNo, want)
		}
		if blocks[i].CourseNo == "" {
			t.Errorf("blocks[%d] has empty identifier", i)
		}
	}
}

func TestFindCourseBlocks_PeriodFirstWins(t *testing.T) {
	lines := []string{
		"コースNo: ABC123",
		"2025-09-01〜2025-09-05",
		"延泊 2025-09-06〜2025-09-07",
	}
	blocks := FindCourseBlocks(lines)

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Period.Start != "2025-09-01" {
		t.Errorf("Period.Start = %q, want first occurrence 2025-09-01", blocks[0].Period.Start)
	}
	if blocks[0].Period.End != "2025-09-05" {
		t.Errorf("Period.End = %q, want first occurrence 2025-09-05", blocks[0].Period.End)
	}
}

func TestFindCourseBlocks_NoIdentifierNoBlocks(t *testing.T) {
	lines := []string{"ヘッダのみ", "2025-09-01〜2025-09-05"}
	if blocks := FindCourseBlocks(lines); len(blocks) != 0 {
		t.Errorf("got %d blocks, want 0", len(blocks))
	}
}

func TestText_UnmarshalJSON(t *testing.T) {
	var p struct {
		No  Text `json:"no"`
		Pax Text `json:"pax"`
		W   Text `json:"w"`
	}
	if err := json.Unmarshal([]byte(`{"no": 1, "pax": "2", "w": 65.5}`), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.No != "1" || p.Pax != "2" || p.W != "65.5" {
		t.Errorf("got no=%q pax=%q w=%q", p.No, p.Pax, p.W)
	}
}
