package testutil

import (
	"fmt"
	"strings"
)

// XMLTask describes one <Task> element for BuildProjectXML.
type XMLTask struct {
	UID      string
	Name     string
	Outline  string
	Level    int
	Duration string
	Summary  bool
	Links    []XMLLink
	// Extra is raw XML spliced verbatim into the task element, for
	// exercising template preservation of unrecognized fields.
	Extra string
}

// XMLLink describes one <PredecessorLink> element.
type XMLLink struct {
	PredecessorUID string
	Type           int
	Lag            int
	LagFormat      int
}

// BuildProjectXML renders a minimal MS Project document for codec and
// end-to-end tests.
func BuildProjectXML(name string, tasks ...XMLTask) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<Project xmlns="http://schemas.microsoft.com/project">`)
	fmt.Fprintf(&b, "<Name>%s</Name>", name)
	b.WriteString("<StartDate>2026-01-05T08:00:00</StartDate>")
	b.WriteString("<StatusDate>2026-01-05T08:00:00</StatusDate>")
	b.WriteString("<Tasks>")
	for i, t := range tasks {
		level := t.Level
		if level == 0 {
			level = strings.Count(t.Outline, ".") + 1
		}
		duration := t.Duration
		if duration == "" {
			duration = "PT8H0M0S"
		}
		b.WriteString("<Task>")
		fmt.Fprintf(&b, "<UID>%s</UID>", t.UID)
		fmt.Fprintf(&b, "<ID>%d</ID>", i+1)
		fmt.Fprintf(&b, "<Name>%s</Name>", t.Name)
		fmt.Fprintf(&b, "<OutlineNumber>%s</OutlineNumber>", t.Outline)
		fmt.Fprintf(&b, "<OutlineLevel>%d</OutlineLevel>", level)
		fmt.Fprintf(&b, "<Duration>%s</Duration>", duration)
		fmt.Fprintf(&b, "<Summary>%d</Summary>", boolDigit(t.Summary))
		b.WriteString("<Milestone>0</Milestone>")
		b.WriteString("<PercentComplete>0</PercentComplete>")
		if t.Extra != "" {
			b.WriteString(t.Extra)
		}
		for _, l := range t.Links {
			b.WriteString("<PredecessorLink>")
			fmt.Fprintf(&b, "<PredecessorUID>%s</PredecessorUID>", l.PredecessorUID)
			fmt.Fprintf(&b, "<Type>%d</Type>", l.Type)
			fmt.Fprintf(&b, "<LinkLag>%d</LinkLag>", l.Lag)
			fmt.Fprintf(&b, "<LagFormat>%d</LagFormat>", l.LagFormat)
			b.WriteString("</PredecessorLink>")
		}
		b.WriteString("</Task>")
	}
	b.WriteString("</Tasks>")
	b.WriteString("</Project>")
	return b.String()
}

func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}
