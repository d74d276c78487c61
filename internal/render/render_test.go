package render

import (
	"strings"
	"testing"

	"fnlgen/internal/roster"
)

func TestText_ZeroCourses(t *testing.T) {
	if got := Text(roster.Document{}); got != "" {
		t.Errorf("Text(zero courses) = %q, want empty string", got)
	}
}

func TestText_CourseHeader(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{
		CourseNo: "ABC123",
		Period:   roster.Period{Start: "2025-09-01", End: "2025-09-05"},
	}}}
	got := Text(doc)

	if !strings.Contains(got, "ツアー情報:") {
		t.Error("missing course header line")
	}
	if !strings.Contains(got, "- コースNo: ABC123 / 期間: 2025-09-01–2025-09-05") {
		t.Errorf("missing course line, got:\n%s", got)
	}
	if strings.Contains(got, "参加者") {
		t.Error("participant header emitted for course with no participants")
	}
}

func TestText_EmptyPeriodComponentsRenderEmpty(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{CourseNo: "X1"}}}
	got := Text(doc)
	if !strings.Contains(got, "- コースNo: X1 / 期間: –") {
		t.Errorf("missing period components should render empty, got:\n%s", got)
	}
}

func TestText_ParticipantOmission(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{
		CourseNo: "ABC123",
		Period:   roster.Period{Start: "2025-09-01", End: "2025-09-05"},
		Participants: []roster.Participant{{
			No: "1", NameJP: "山田 太郎", NameEN: "YAMADA TARO", InquiryNo: "Q-100",
		}},
	}}}
	got := Text(doc)

	head := "ABC123 No.1 山田 太郎 / YAMADA TARO（問番:Q-100）"
	if !strings.Contains(got, head) {
		t.Fatalf("missing identity header, got:\n%s", got)
	}
	// All optional fields empty: nothing but the identity header for
	// this participant.
	rest := got[strings.Index(got, head)+len(head):]
	for _, ln := range strings.Split(rest, "\n") {
		if strings.HasPrefix(strings.TrimSpace(ln), "- ") {
			t.Errorf("unexpected category line for empty participant: %q", ln)
		}
	}
}

func TestText_FullParticipant(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{
		CourseNo: "ABC123",
		Period:   roster.Period{Start: "2025-09-01", End: "2025-09-05"},
		Participants: []roster.Participant{{
			No: "2", NameJP: "佐藤 花子", NameEN: "SATO HANAKO", InquiryNo: "Q-200",
			JoinType: &roster.JoinType{
				Meet:     &roster.MeetPoint{Place: "成田空港", Datetime: "2025-09-01 09:00"},
				Flight:   &roster.Flight{Arrive: "NH101", Depart: "NH102"},
				Transfer: "あり",
			},
			RoomingRQ:   []string{"禁煙", "高層階"},
			OptionalRQ:  []roster.OptionalRequest{{Name: "街歩きツアー", Pax: "2"}},
			Celebration: []string{"ハネムーン"},
			MealAllergy: "えびアレルギー",
			Medical:     "車椅子",
			Airline:     &roster.Airline{Meal: "ベジタリアン", CarryOn: "楽器あり"},
			ScheduleImpact: "到着遅延の可能性",
			BusSeating:     "家族同席希望",
			GearSizes:      &roster.GearSizes{Top: "M", Shoes: "26.5", HeightCM: "170"},
			OtherGroup:     []roster.GroupCompanion{{Name: "鈴木", InquiryNo: "Q-300", RoomType: "TWIN", Status: "確定"}},
		}},
	}}}
	got := Text(doc)

	for _, want := range []string{
		"- 参加形態: L/O（合流:成田空港/2025-09-01 09:00 送迎:あり 個人便:NH101/NH102）",
		"- ルーミング要望: 禁煙 / 高層階",
		"- オプショナル: 街歩きツアー / RQ / 不明 / 2名",
		"- 特別依頼: ハネムーン",
		"- 食事・アレルギー: えびアレルギー",
		"- 医療・介助: 車椅子",
		"- 航空会社関連:",
		"  - 機内食: ベジタリアン",
		"  - 機内持込: 楽器あり",
		"- 日程・集合影響: 到着遅延の可能性",
		"- バス座席/グループ: 家族同席希望",
		"- 装備・レンタルサイズ: 服のサイズM 靴26.5 身長170cm",
		"- 別問番同行GRP: 鈴木/Q-300 同室=TWIN 確定",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing line %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "搭乗支援") {
		t.Error("empty airline sub-field should be omitted")
	}
}

func TestText_AirlineBlockOmittedWhenEmpty(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{
		CourseNo: "ABC123",
		Participants: []roster.Participant{{
			No: "1", Airline: &roster.Airline{},
		}},
	}}}
	got := Text(doc)
	if strings.Contains(got, "航空会社関連") {
		t.Error("airline block emitted with no populated sub-fields")
	}
}

func TestText_OrderPreserved(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{
		{CourseNo: "B2"},
		{CourseNo: "A1"},
	}}
	got := Text(doc)
	if strings.Index(got, "B2") > strings.Index(got, "A1") {
		t.Error("course order not preserved")
	}
}

func TestText_NoTrailingWhitespace(t *testing.T) {
	doc := roster.Document{Courses: []roster.Course{{CourseNo: "A1"}}}
	got := Text(doc)
	if got != strings.TrimSpace(got) {
		t.Error("result has leading or trailing whitespace")
	}
}
