package msxml

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/alexanderramin/chronos/internal/codec"
	"github.com/alexanderramin/chronos/internal/domain"
)

// Document is a decoded project: metadata, tasks with their incoming links
// attached, and the raw source bytes retained as the export template.
// Identities are unassigned; the caller mints them when persisting.
type Document struct {
	Name       string
	StartDate  *time.Time
	StatusDate *time.Time
	Tasks      []*domain.Task
	Template   string
}

// Decode parses an MS Project XML document into a Document. Structural XML
// errors fail fast with a parse error; field-level invariants are left to
// the validator so ingest can surface the full violation set.
//
// PredecessorUID back-references are resolved to outline numbers here, since
// the rest of the engine identifies link targets by outline. Links whose UID
// matches no task are dropped. LinkLag is stored exactly as the document
// carried it; no unit conversion happens at ingest.
func Decode(data []byte) (*Document, error) {
	var raw xmlProject
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, domain.ParseErr("malformed project XML: %v", err)
	}

	doc := &Document{
		Name:       raw.Name,
		StartDate:  parseWireTime(raw.StartDate),
		StatusDate: parseWireTime(raw.StatusDate),
		Template:   string(data),
	}
	if doc.Name == "" {
		doc.Name = raw.Title
	}

	uidToOutline := make(map[string]string, len(raw.Tasks))
	for _, t := range raw.Tasks {
		if t.UID != "" {
			uidToOutline[t.UID] = t.OutlineNumber
		}
	}

	for _, t := range raw.Tasks {
		task := &domain.Task{
			UID:            t.UID,
			Name:           t.Name,
			OutlineNumber:  t.OutlineNumber,
			OutlineLevel:   t.OutlineLevel,
			Duration:       normalizeDuration(t.Duration, t.Milestone),
			Value:          t.Value,
			Milestone:      wireBool(t.Milestone),
			Summary:        wireBool(t.Summary),
			PercentDone:    wireInt(t.PercentComplete),
			StartDate:      parseWireTime(t.Start),
			FinishDate:     parseWireTime(t.Finish),
			ActualStart:    parseWireTime(t.ActualStart),
			ActualFinish:   parseWireTime(t.ActualFinish),
			ActualDuration: t.ActualDuration,
			CreateDate:     parseWireTime(t.CreateDate),
		}
		if task.OutlineLevel == 0 {
			task.OutlineLevel = domain.OutlineDepth(task.OutlineNumber)
		}

		for _, l := range t.Links {
			outline, ok := uidToOutline[l.PredecessorUID]
			if !ok || outline == "" {
				continue
			}
			task.Predecessors = append(task.Predecessors, domain.PredecessorLink{
				PredecessorOutline: outline,
				Type:               domain.LinkType(wireIntDefault(l.Type, int(domain.LinkFS))),
				Lag:                wireInt(l.LinkLag),
				LagFormat:          domain.LagFormat(wireIntDefault(l.LagFormat, int(domain.LagWorkingDays))),
			})
		}

		doc.Tasks = append(doc.Tasks, task)
	}

	return doc, nil
}

// normalizeDuration maps empty durations to the canonical zero form for
// milestones, which some writers emit as an empty element.
func normalizeDuration(duration, milestone string) string {
	if duration == "" && wireBool(milestone) {
		return codec.ZeroDuration
	}
	return duration
}

func parseWireTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(wireTimeLayout, s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}

// wireBool accepts the "0"/"1" flags MS Project writes, plus bare
// true/false from lenient producers.
func wireBool(s string) bool {
	return s == "1" || s == "true"
}

func wireInt(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func wireIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
