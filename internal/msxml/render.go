package msxml

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/chronos/internal/domain"
)

// Render emits a project as MS Project XML. When the project retains a
// source template, the template is re-emitted byte-for-byte except for the
// project metadata elements and the <Tasks> block, which are replaced with
// the current state. Projects without a template get a fresh skeleton.
func Render(p *domain.Project, tasks []*domain.Task) ([]byte, error) {
	ordered := make([]*domain.Task, len(tasks))
	copy(ordered, tasks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return domain.CompareOutlines(ordered[i].OutlineNumber, ordered[j].OutlineNumber) < 0
	})

	taskBlock := renderTasks(ordered)

	if p.XMLTemplate == "" {
		return renderFresh(p, taskBlock), nil
	}
	return spliceTemplate(p, taskBlock)
}

func renderFresh(p *domain.Project, taskBlock string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	b.WriteString("\n")
	b.WriteString(`<Project xmlns="http://schemas.microsoft.com/project">`)
	fmt.Fprintf(&b, "<Name>%s</Name>", escape(p.Name))
	if p.StartDate != nil {
		fmt.Fprintf(&b, "<StartDate>%s</StartDate>", p.StartDate.Format(wireTimeLayout))
	}
	if p.StatusDate != nil {
		fmt.Fprintf(&b, "<StatusDate>%s</StatusDate>", p.StatusDate.Format(wireTimeLayout))
	}
	b.WriteString("<Tasks>")
	b.WriteString(taskBlock)
	b.WriteString("</Tasks>")
	b.WriteString("</Project>")
	return []byte(b.String())
}

func spliceTemplate(p *domain.Project, taskBlock string) ([]byte, error) {
	tpl := p.XMLTemplate

	open := strings.Index(tpl, "<Tasks")
	if open < 0 {
		// Template without a task container: insert one before the root
		// close so the export still carries the current tasks.
		closeRoot := strings.LastIndex(tpl, "</Project>")
		if closeRoot < 0 {
			return nil, domain.ParseErr("stored template has no </Project> element")
		}
		out := tpl[:closeRoot] + "<Tasks>" + taskBlock + "</Tasks>" + tpl[closeRoot:]
		return []byte(replaceMetadata(out, p)), nil
	}

	end := strings.Index(tpl[open:], "</Tasks>")
	if end < 0 {
		return nil, domain.ParseErr("stored template has an unterminated <Tasks> element")
	}
	end = open + end + len("</Tasks>")

	prefix := replaceMetadata(tpl[:open], p)
	return []byte(prefix + "<Tasks>" + taskBlock + "</Tasks>" + tpl[end:]), nil
}

// replaceMetadata rewrites the project-level Name, StartDate, and StatusDate
// elements within the pre-<Tasks> segment, where they are unambiguous.
func replaceMetadata(segment string, p *domain.Project) string {
	segment = replaceElementText(segment, "Name", escape(p.Name))
	if p.StartDate != nil {
		segment = replaceElementText(segment, "StartDate", p.StartDate.Format(wireTimeLayout))
	}
	if p.StatusDate != nil {
		segment = replaceElementText(segment, "StatusDate", p.StatusDate.Format(wireTimeLayout))
	}
	return segment
}

// replaceElementText replaces the text content of the first <tag>...</tag>
// occurrence. The segment is left unchanged when the element is absent.
func replaceElementText(segment, tag, value string) string {
	openTag := "<" + tag + ">"
	closeTag := "</" + tag + ">"
	start := strings.Index(segment, openTag)
	if start < 0 {
		return segment
	}
	rest := segment[start+len(openTag):]
	end := strings.Index(rest, closeTag)
	if end < 0 {
		return segment
	}
	return segment[:start] + openTag + value + closeTag + segment[start+len(openTag)+end:]
}

func renderTasks(tasks []*domain.Task) string {
	// Links carry outline back-references internally; the wire format wants
	// the predecessor's UID.
	outlineToUID := make(map[string]string, len(tasks))
	for i, t := range tasks {
		uid := t.UID
		if uid == "" {
			uid = fmt.Sprintf("%d", i+1)
		}
		outlineToUID[t.OutlineNumber] = uid
	}

	var b strings.Builder
	for i, t := range tasks {
		uid := t.UID
		if uid == "" {
			uid = fmt.Sprintf("%d", i+1)
		}
		b.WriteString("<Task>")
		fmt.Fprintf(&b, "<UID>%s</UID>", escape(uid))
		fmt.Fprintf(&b, "<ID>%d</ID>", i+1)
		fmt.Fprintf(&b, "<Name>%s</Name>", escape(t.Name))
		fmt.Fprintf(&b, "<OutlineNumber>%s</OutlineNumber>", escape(t.OutlineNumber))
		fmt.Fprintf(&b, "<OutlineLevel>%d</OutlineLevel>", t.OutlineLevel)
		fmt.Fprintf(&b, "<Duration>%s</Duration>", escape(t.Duration))
		if t.Value != "" {
			fmt.Fprintf(&b, "<Value>%s</Value>", escape(t.Value))
		}
		fmt.Fprintf(&b, "<Milestone>%s</Milestone>", wireFlag(t.Milestone))
		fmt.Fprintf(&b, "<Summary>%s</Summary>", wireFlag(t.Summary))
		fmt.Fprintf(&b, "<PercentComplete>%d</PercentComplete>", t.PercentDone)
		writeTimeElement(&b, "Start", t.StartDate)
		writeTimeElement(&b, "Finish", t.FinishDate)
		writeTimeElement(&b, "ActualStart", t.ActualStart)
		writeTimeElement(&b, "ActualFinish", t.ActualFinish)
		if t.ActualDuration != "" {
			fmt.Fprintf(&b, "<ActualDuration>%s</ActualDuration>", escape(t.ActualDuration))
		}
		writeTimeElement(&b, "CreateDate", t.CreateDate)
		for _, l := range t.Predecessors {
			predUID, ok := outlineToUID[l.PredecessorOutline]
			if !ok {
				continue
			}
			b.WriteString("<PredecessorLink>")
			fmt.Fprintf(&b, "<PredecessorUID>%s</PredecessorUID>", escape(predUID))
			fmt.Fprintf(&b, "<Type>%d</Type>", int(l.Type))
			fmt.Fprintf(&b, "<LinkLag>%d</LinkLag>", l.Lag)
			fmt.Fprintf(&b, "<LagFormat>%d</LagFormat>", int(l.LagFormat))
			b.WriteString("</PredecessorLink>")
		}
		b.WriteString("</Task>")
	}
	return b.String()
}

func writeTimeElement(b *strings.Builder, tag string, t *time.Time) {
	if t == nil {
		return
	}
	fmt.Fprintf(b, "<%s>%s</%s>", tag, t.Format(wireTimeLayout), tag)
}

func wireFlag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
