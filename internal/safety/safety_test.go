package safety

import (
	"reflect"
	"testing"
)

func TestContainsForbidden(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"座席 窓側 希望", true},
		{"保険は不要", true},
		{"旅券の有効期限", true},
		{"社内進行メモ: 後日確定", true},
		{"JR 新宿駅で合流", true},
		{"- オプショナル: 街歩きツアー / RQ / 2025-09-02 / 2名", false},
		{"", false},
		// JR requires word boundaries; it must not fire inside a token.
		{"NJRX-100", false},
	}

	for _, tt := range tests {
		if got := ContainsForbidden(tt.text); got != tt.want {
			t.Errorf("ContainsForbidden(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestFindAllForbidden(t *testing.T) {
	hits := FindAllForbidden("座席 窓側 希望 / 保険は不要")
	want := []string{"座席", "保険"}
	if !reflect.DeepEqual(hits, want) {
		t.Errorf("FindAllForbidden = %v, want %v", hits, want)
	}
}

func TestFindAllForbidden_Empty(t *testing.T) {
	if hits := FindAllForbidden("問題のないテキスト"); hits != nil {
		t.Errorf("FindAllForbidden = %v, want nil", hits)
	}
}

// Contains and FindAll must agree: true iff the match set is non-empty.
func TestRoundTripAgreement(t *testing.T) {
	samples := []string{
		"",
		"座席",
		"ツアー情報:\n- コースNo: ABC123 / 期間: 2025-09-01–2025-09-05",
		"返金と金銭の話",
		"JRの旅は楽しい",
		"ABCJR123",
	}
	for _, text := range samples {
		contains := ContainsForbidden(text)
		hits := FindAllForbidden(text)
		if contains != (len(hits) > 0) {
			t.Errorf("disagreement on %q: contains=%v, hits=%v", text, contains, hits)
		}
	}
}

func TestNew_ExtraPatterns(t *testing.T) {
	f, err := New(`禁止語`)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if !f.Contains("これは禁止語です") {
		t.Error("extra pattern not matched")
	}
	if f.Contains("これは普通の文です") {
		t.Error("false positive on extra pattern")
	}
}

func TestNew_InvalidExtraPattern(t *testing.T) {
	if _, err := New(`(`); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
