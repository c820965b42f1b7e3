package domain

// LinkType is the precedence relation of a link, using the MS Project wire
// encoding.
type LinkType int

const (
	LinkFF LinkType = 0 // finish-to-finish
	LinkFS LinkType = 1 // finish-to-start
	LinkSF LinkType = 2 // start-to-finish
	LinkSS LinkType = 3 // start-to-start
)

func (t LinkType) String() string {
	switch t {
	case LinkFF:
		return "FF"
	case LinkFS:
		return "FS"
	case LinkSF:
		return "SF"
	case LinkSS:
		return "SS"
	default:
		return "FS"
	}
}

// Valid reports whether t is one of the four wire codes.
func (t LinkType) Valid() bool {
	return t >= LinkFF && t <= LinkSS
}

// LagFormat selects the native unit and calendar kind (working vs elapsed)
// of a link's lag value, using the MS Project wire encoding.
type LagFormat int

const (
	LagWorkingMinutes LagFormat = 3
	LagElapsedMinutes LagFormat = 4
	LagWorkingHours   LagFormat = 5
	LagElapsedHours   LagFormat = 6
	LagWorkingDays    LagFormat = 7
	LagElapsedDays    LagFormat = 8
	LagWorkingWeeks   LagFormat = 9
	LagElapsedWeeks   LagFormat = 10
	LagWorkingMonths  LagFormat = 11
	LagElapsedMonths  LagFormat = 12
)

func (f LagFormat) String() string {
	switch f {
	case LagWorkingMinutes:
		return "working minutes"
	case LagElapsedMinutes:
		return "elapsed minutes"
	case LagWorkingHours:
		return "working hours"
	case LagElapsedHours:
		return "elapsed hours"
	case LagWorkingDays:
		return "working days"
	case LagElapsedDays:
		return "elapsed days"
	case LagWorkingWeeks:
		return "working weeks"
	case LagElapsedWeeks:
		return "elapsed weeks"
	case LagWorkingMonths:
		return "working months"
	case LagElapsedMonths:
		return "elapsed months"
	default:
		return "days"
	}
}

// Valid reports whether f is one of the recognized wire codes.
func (f LagFormat) Valid() bool {
	return f >= LagWorkingMinutes && f <= LagElapsedMonths
}
