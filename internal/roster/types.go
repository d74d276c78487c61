package roster

import (
	"encoding/json"
	"math"
	"strconv"
)

// Period is a course date range. Either side may be empty when the
// source text never mentions it.
type Period struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CourseBlock is the contiguous span of normalized lines attributed to
// one course, produced by FindCourseBlocks. Line order is significant:
// it becomes the row numbers shown to the extraction capability.
type CourseBlock struct {
	CourseNo string   `json:"courseNo"`
	Period   Period   `json:"period"`
	Lines    []string `json:"lines"`
}

// Document is the aggregate course list after repair and validation,
// ready for rendering.
type Document struct {
	Courses []Course `json:"courses"`
}

// Course is one tour booking unit in a validated document.
type Course struct {
	CourseNo     string        `json:"courseNo"`
	Period       Period        `json:"period"`
	Participants []Participant `json:"participants"`
}

// Participant carries the per-traveler fields of the extraction
// contract. Optional categories are rendered only when non-empty.
type Participant struct {
	No             Text              `json:"no"`
	NameJP         string            `json:"nameJP"`
	NameEN         string            `json:"nameEN"`
	InquiryNo      Text              `json:"inquiryNo"`
	JoinType       *JoinType         `json:"joinType,omitempty"`
	RoomingRQ      []string          `json:"roomingRQ,omitempty"`
	OptionalRQ     []OptionalRequest `json:"optionalRQ,omitempty"`
	Celebration    []string          `json:"celebration,omitempty"`
	MealAllergy    string            `json:"meal_allergy,omitempty"`
	Medical        string            `json:"medical,omitempty"`
	Airline        *Airline          `json:"airline,omitempty"`
	ScheduleImpact string            `json:"scheduleImpact,omitempty"`
	BusSeating     string            `json:"busSeating,omitempty"`
	GearSizes      *GearSizes        `json:"gearSizes,omitempty"`
	OtherGroup     []GroupCompanion  `json:"otherGroup,omitempty"`
}

// JoinType describes a leave/opt-out participation pattern: meeting
// point, private transfer, individual flights.
type JoinType struct {
	Meet     *MeetPoint `json:"meet,omitempty"`
	Flight   *Flight    `json:"flight,omitempty"`
	Transfer string     `json:"transfer,omitempty"`
}

// MeetPoint is where and when a participant joins the group.
type MeetPoint struct {
	Place    string `json:"place,omitempty"`
	Datetime string `json:"datetime,omitempty"`
}

// Flight holds individually booked arrival/departure flights.
type Flight struct {
	Arrive string `json:"arrive,omitempty"`
	Depart string `json:"depart,omitempty"`
}

// OptionalRequest is one requested optional activity. The upstream
// producer sometimes attaches a status field; the repair layer strips
// it, so it is deliberately absent here.
type OptionalRequest struct {
	Name string `json:"name"`
	Date string `json:"date,omitempty"`
	Pax  Text   `json:"pax,omitempty"`
}

// Airline is the closed key set of airline-related notes.
type Airline struct {
	Meal          string `json:"meal,omitempty"`
	Assist        string `json:"assist,omitempty"`
	CarryOn       string `json:"carryOn,omitempty"`
	ArrivalImpact string `json:"arrivalImpact,omitempty"`
}

// GearSizes holds rental gear measurements.
type GearSizes struct {
	Top      Text `json:"top,omitempty"`
	Bottom   Text `json:"bottom,omitempty"`
	Shoes    Text `json:"shoes,omitempty"`
	HeightCM Text `json:"height_cm,omitempty"`
	WeightKG Text `json:"weight_kg,omitempty"`
}

// GroupCompanion is a companion traveling under a different inquiry
// number.
type GroupCompanion struct {
	Name      string `json:"name,omitempty"`
	InquiryNo Text   `json:"inquiryNo,omitempty"`
	RoomType  string `json:"roomType,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Text is a scalar that the upstream producer may emit as a JSON
// string or number. It decodes either form and renders as the string
// representation.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = ""
	case string:
		*t = Text(x)
	case float64:
		if x == math.Trunc(x) {
			*t = Text(strconv.FormatInt(int64(x), 10))
		} else {
			*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
		}
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		*t = Text(b)
	}
	return nil
}

func (t Text) String() string { return string(t) }
