// Package render projects a validated multi-course document into the
// final FNL briefing text. The projection is deterministic: course and
// participant order is preserved, and empty categories emit nothing.
package render

import (
	"fmt"
	"strings"

	"fnlgen/internal/roster"
)

// airlineLabels pairs canonical airline sub-fields with their fixed
// output labels, in emission order.
var airlineLabels = []struct {
	value func(*roster.Airline) string
	label string
}{
	{func(a *roster.Airline) string { return a.Meal }, "機内食"},
	{func(a *roster.Airline) string { return a.Assist }, "搭乗支援"},
	{func(a *roster.Airline) string { return a.CarryOn }, "機内持込"},
	{func(a *roster.Airline) string { return a.ArrivalImpact }, "到着影響"},
}

// Text renders the briefing for doc. Zero courses yield the empty
// string: no headers, no separators. Trailing whitespace is trimmed
// from the overall result.
func Text(doc roster.Document) string {
	if len(doc.Courses) == 0 {
		return ""
	}

	var out []string
	for _, c := range doc.Courses {
		out = append(out, "ツアー情報:")
		out = append(out, fmt.Sprintf("- コースNo: %s / 期間: %s–%s", c.CourseNo, c.Period.Start, c.Period.End))
		out = append(out, "")

		if len(c.Participants) > 0 {
			out = append(out, "参加者（該当のみ）:")
		}
		for _, p := range c.Participants {
			out = append(out, participantLines(c.CourseNo, p)...)
			out = append(out, "")
		}

		out = append(out, "")
	}

	return strings.TrimSpace(strings.Join(out, "\n"))
}

// participantLines emits the identity header plus one block per
// non-empty category.
func participantLines(courseNo string, p roster.Participant) []string {
	lines := []string{
		fmt.Sprintf("%s No.%s %s / %s（問番:%s）", courseNo, p.No, p.NameJP, p.NameEN, p.InquiryNo),
	}

	if jt := p.JoinType; jt != nil && joinTypeHasContent(jt) {
		var place, datetime, arrive, depart string
		if jt.Meet != nil {
			place, datetime = jt.Meet.Place, jt.Meet.Datetime
		}
		if jt.Flight != nil {
			arrive, depart = jt.Flight.Arrive, jt.Flight.Depart
		}
		lines = append(lines, fmt.Sprintf(
			"- 参加形態: L/O（合流:%s/%s 送迎:%s 個人便:%s/%s）",
			place, datetime, jt.Transfer, arrive, depart))
	}

	if len(p.RoomingRQ) > 0 {
		lines = append(lines, "- ルーミング要望: "+strings.Join(p.RoomingRQ, " / "))
	}

	for _, op := range p.OptionalRQ {
		date := op.Date
		if date == "" {
			date = "不明"
		}
		lines = append(lines, fmt.Sprintf("- オプショナル: %s / RQ / %s / %s名", op.Name, date, op.Pax))
	}

	if len(p.Celebration) > 0 {
		lines = append(lines, "- 特別依頼: "+strings.Join(p.Celebration, " / "))
	}

	if p.MealAllergy != "" {
		lines = append(lines, "- 食事・アレルギー: "+p.MealAllergy)
	}

	if p.Medical != "" {
		lines = append(lines, "- 医療・介助: "+p.Medical)
	}

	if al := p.Airline; al != nil && airlineHasContent(al) {
		lines = append(lines, "- 航空会社関連:")
		for _, f := range airlineLabels {
			if v := f.value(al); v != "" {
				lines = append(lines, fmt.Sprintf("  - %s: %s", f.label, v))
			}
		}
	}

	if p.ScheduleImpact != "" {
		lines = append(lines, "- 日程・集合影響: "+p.ScheduleImpact)
	}

	if p.BusSeating != "" {
		lines = append(lines, "- バス座席/グループ: "+p.BusSeating)
	}

	if gs := p.GearSizes; gs != nil {
		var segs []string
		if gs.Top != "" {
			segs = append(segs, "服のサイズ"+gs.Top.String())
		}
		if gs.Bottom != "" {
			segs = append(segs, "ズボン"+gs.Bottom.String())
		}
		if gs.Shoes != "" {
			segs = append(segs, "靴"+gs.Shoes.String())
		}
		if gs.HeightCM != "" {
			segs = append(segs, "身長"+gs.HeightCM.String()+"cm")
		}
		if gs.WeightKG != "" {
			segs = append(segs, "体重"+gs.WeightKG.String()+"kg")
		}
		if len(segs) > 0 {
			lines = append(lines, "- 装備・レンタルサイズ: "+strings.Join(segs, " "))
		}
	}

	for _, og := range p.OtherGroup {
		room := ""
		if og.RoomType != "" {
			room = " 同室=" + og.RoomType
		}
		lines = append(lines, fmt.Sprintf("- 別問番同行GRP: %s/%s%s %s", og.Name, og.InquiryNo, room, og.Status))
	}

	return lines
}

func joinTypeHasContent(jt *roster.JoinType) bool {
	if jt.Transfer != "" {
		return true
	}
	if jt.Meet != nil && (jt.Meet.Place != "" || jt.Meet.Datetime != "") {
		return true
	}
	if jt.Flight != nil && (jt.Flight.Arrive != "" || jt.Flight.Depart != "") {
		return true
	}
	return false
}

func airlineHasContent(al *roster.Airline) bool {
	return al.Meal != "" || al.Assist != "" || al.CarryOn != "" || al.ArrivalImpact != ""
}
