package roster

import "regexp"

// courseNoRegex matches a course identifier line, e.g. "コースNo: ABC123"
// or "Course XYZ-9".
var courseNoRegex = regexp.MustCompile(`(コースNo|Course)[:：]?\s*([A-Za-z0-9\-]+)`)

// dateRangeRegex matches a date range like "2025-09-01〜2025-09-05".
// The span between the two dates is non-greedy so the first range on a
// line wins.
var dateRangeRegex = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}).*?(\d{4}-\d{2}-\d{2})`)

// FindCourseBlocks segments normalized lines into per-course blocks in
// a single left-to-right pass.
//
// A course-identifier line seals the current block (if it has an
// identifier) and starts a new one. A date-range line fills the current
// block's period, first occurrence wins per field. Lines seen before
// the first identifier accumulate in a throwaway block that is never
// emitted, so output blocks always carry a non-empty identifier and
// appear in detection order.
func FindCourseBlocks(lines []string) []CourseBlock {
	var blocks []CourseBlock
	var cur CourseBlock

	for _, ln := range lines {
		if m := courseNoRegex.FindStringSubmatch(ln); m != nil {
			if cur.CourseNo != "" {
				blocks = append(blocks, cur)
			}
			cur = CourseBlock{CourseNo: m[2]}
		}

		if m := dateRangeRegex.FindStringSubmatch(ln); m != nil {
			if cur.Period.Start == "" {
				cur.Period.Start = m[1]
			}
			if cur.Period.End == "" {
				cur.Period.End = m[2]
			}
		}

		cur.Lines = append(cur.Lines, ln)
	}

	if cur.CourseNo != "" && len(cur.Lines) > 0 {
		blocks = append(blocks, cur)
	}

	return blocks
}
