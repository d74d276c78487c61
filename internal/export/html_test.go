package export

import (
	"strings"
	"testing"
)

func TestHTMLWrapsBriefing(t *testing.T) {
	briefing := "ツアー情報:\n- コースNo: ABC123 / 期間: 2025-04-01–2025-04-05"

	out, err := HTML("ABC123 最終案内", briefing)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(out, "<title>ABC123 最終案内</title>") {
		t.Errorf("title missing from output:\n%s", out)
	}
	if !strings.Contains(out, "<li>コースNo: ABC123 / 期間: 2025-04-01–2025-04-05</li>") {
		t.Errorf("bullet not converted to list item:\n%s", out)
	}
}

func TestHTMLDefaultTitle(t *testing.T) {
	out, err := HTML("  ", "本文")
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if !strings.Contains(out, "<title>FNL Briefing</title>") {
		t.Errorf("expected default title:\n%s", out)
	}
}

func TestHTMLEscapesTitle(t *testing.T) {
	out, err := HTML("<script>alert(1)</script>", "本文")
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if strings.Contains(out, "<title><script>") {
		t.Errorf("title was not escaped:\n%s", out)
	}
}
