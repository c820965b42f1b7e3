package domain

// PredecessorLink is a successor-side precedence edge. PredecessorOutline is
// a textual back-reference to the predecessor task's outline number; links
// carry outlines rather than task IDs because outlines match the XML wire
// format and survive renumbering.
//
// Lag is stored in the native unit selected by LagFormat, exactly as the
// source document carried it. Conversion to days happens only at display
// time and inside the CPM pass.
type PredecessorLink struct {
	ID                 int64
	TaskID             string
	ProjectID          string
	PredecessorOutline string
	Type               LinkType
	Lag                int
	LagFormat          LagFormat
}
