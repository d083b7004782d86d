package tskey

// Field shifts and widths of the composite key.
const (
	SecondShift = 0
	MinuteShift = 6
	HourShift   = 12
	DayShift    = 17
	MonthShift  = 22

	secondMask = 1<<6 - 1
	minuteMask = 1<<6 - 1
	hourMask   = 1<<5 - 1
	dayMask    = 1<<5 - 1
)

// Fields are the fine-grained calendar components of a timestamp.
type Fields struct {
	Month  int
	Day    int
	Hour   int
	Minute int
	Second int
}

// Encode packs the fields into a composite key.
func Encode(month, day, hour, minute, second int) uint32 {
	return uint32(month<<MonthShift + day<<DayShift + hour<<HourShift + minute<<MinuteShift + second) //nolint:gosec // overflow is the documented hazard
}

// Encode packs f into a composite key.
func (f Fields) Encode() uint32 {
	return Encode(f.Month, f.Day, f.Hour, f.Minute, f.Second)
}

// Decode splits a composite key back into its fields. It is exact only for
// keys produced from in-range fields.
func Decode(key uint32) Fields {
	return Fields{
		Month:  int(key >> MonthShift),
		Day:    int(key >> DayShift & dayMask),
		Hour:   int(key >> HourShift & hourMask),
		Minute: int(key >> MinuteShift & minuteMask),
		Second: int(key & secondMask),
	}
}
