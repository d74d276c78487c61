package llm

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"fnlgen/internal/roster"
)

// defaultMasterPrompt stands in when no master prompt file is
// configured or readable.
const defaultMasterPrompt = "あなたは旅行会社のFNL用情報抽出エンジンです。" +
	"入力となる日程表テキストから、参加者ごとの重要情報だけを抽出し、" +
	"EXTRACT_SCHEMA.json に従った JSON を返してください。"

// extractionSystemPrompt pins the extraction role and output format.
const extractionSystemPrompt = "あなたは旅行会社のFNL作成を支援する抽出エンジンです。" +
	"必ず EXTRACT_SCHEMA.json に従った JSON オブジェクトのみを返してください。"

// reviewSystemPrompt pins the review role and output format.
const reviewSystemPrompt = "あなたは抽出結果の品質レビュアーです。" +
	"必ず指定された JSON 形式で回答してください。"

// forbiddenNote repeats the exclusion list inside every extraction
// prompt. The safety filter re-checks the rendered output regardless.
const forbiddenNote = "座席・並び席・保険・返金・金銭・旅券・JR・社内進行に関する情報は、" +
	"JSON出力に含めないでください。internal_notes のようなフィールドに退避させず、" +
	"完全に無視してください。"

// LoadMasterPrompt reads the master prompt file, falling back to the
// builtin default when the path is empty or unreadable.
func LoadMasterPrompt(path string) string {
	if path == "" {
		return defaultMasterPrompt
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return defaultMasterPrompt
	}
	return string(data)
}

// BuildExtractionPrompt assembles the per-course user prompt: master
// prompt, course meta, numbered source lines, forbidden-topic note and
// the fixed output requirements.
func BuildExtractionPrompt(master string, block roster.CourseBlock) string {
	var b strings.Builder
	b.WriteString(master)
	b.WriteString("\n\n【このコースの基本情報】\n")
	fmt.Fprintf(&b, "コースNo: %s\n期間: %s〜%s", block.CourseNo, block.Period.Start, block.Period.End)
	b.WriteString("\n\n【このコースの原文（行番号付き）】\n")
	b.WriteString(numberedLines(block.Lines))
	b.WriteString("\n\n【出力要件】\n")
	b.WriteString("・EXTRACT_SCHEMA.json に従った JSON オブジェクトのみを返してください。\n")
	b.WriteString("・トップレベルは {\"courses\": [...]} という構造にしてください。\n")
	b.WriteString("・このブロックは1コース分なので courses 配列には1件だけ入れてください。\n")
	b.WriteString("・行番号を参考にして、どの行からどのフィールドを埋めたか一貫性を保ってください。\n")
	b.WriteString(forbiddenNote)
	return b.String()
}

// BuildReviewPrompt assembles the review prompt: numbered source lines
// plus the pretty-printed candidate document and the four fixed review
// viewpoints.
func BuildReviewPrompt(block roster.CourseBlock, doc map[string]any) (string, error) {
	docJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode candidate document: %w", err)
	}

	var b strings.Builder
	b.WriteString("あなたは旅行会社の FNL 抽出結果の品質レビュアーです。\n\n")
	b.WriteString("[入力1: 正規化済み原文（行番号付き）]\n")
	b.WriteString(numberedLines(block.Lines))
	b.WriteString("\n\n[入力2: 抽出結果 JSON]\n")
	b.Write(docJSON)
	b.WriteString("\n\n[レビュー観点]\n")
	b.WriteString("- JSONは既に基本スキーマに適合しています。構造そのものを壊す必要はありません。\n")
	b.WriteString("- 次の点を重点的に確認してください:\n")
	b.WriteString("  1. 座席・並び席・保険・返金・金銭・旅券・JR・社内進行の情報が JSON に紛れ込んでいないか。\n")
	b.WriteString("  2. 原文にハネムーン/入籍/記念日などの表現がある場合、celebration に反映されているか。\n")
	b.WriteString("  3. 医療・アレルギー情報が、medical または meal_allergy に正しく割り当てられているか。\n")
	b.WriteString("  4. 明らかに同じ内容の重複エントリがないか。\n")
	b.WriteString("- 上記4点以外の観点については、新たなエラー・警告コードを追加しないでください。\n")
	b.WriteString("- 敬称（例: \"MR.\", \"MS.\"）が nameEN に含まれていても問題ありません。\n\n")
	b.WriteString("[出力形式]\n")
	b.WriteString("以下の JSON オブジェクトのみ出力してください。\n\n")
	b.WriteString(`{"ok": true or false, "errors": [{"code": "ERR_...", "message": "...", "suggestedPatch": {}}], "warnings": [{"code": "WARN_...", "message": "...", "suggestedPatch": {}}]}`)
	return b.String(), nil
}

// numberedLines prefixes each line with its 1-based row number,
// keeping field provenance traceable for the reviewer.
func numberedLines(lines []string) string {
	var b strings.Builder
	for i, ln := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d: %s", i+1, ln)
	}
	return b.String()
}
