// Package msxml translates between the Microsoft Project XML schema and the
// domain model. Decoding is namespace-tolerant: unqualified element names
// match both the project namespace and plain documents. Rendering re-emits
// the retained source document and splices in the current task set, so
// elements the codec never modeled survive the round trip.
package msxml

import "encoding/xml"

// wireTimeLayout is the zone-less timestamp format MS Project writes.
const wireTimeLayout = "2006-01-02T15:04:05"

type xmlProject struct {
	XMLName    xml.Name  `xml:"Project"`
	Name       string    `xml:"Name"`
	Title      string    `xml:"Title"`
	StartDate  string    `xml:"StartDate"`
	StatusDate string    `xml:"StatusDate"`
	Tasks      []xmlTask `xml:"Tasks>Task"`
}

type xmlTask struct {
	UID             string    `xml:"UID"`
	ID              string    `xml:"ID"`
	Name            string    `xml:"Name"`
	OutlineNumber   string    `xml:"OutlineNumber"`
	OutlineLevel    int       `xml:"OutlineLevel"`
	Duration        string    `xml:"Duration"`
	Value           string    `xml:"Value"`
	Milestone       string    `xml:"Milestone"`
	Summary         string    `xml:"Summary"`
	PercentComplete string    `xml:"PercentComplete"`
	Start           string    `xml:"Start"`
	Finish          string    `xml:"Finish"`
	ActualStart     string    `xml:"ActualStart"`
	ActualFinish    string    `xml:"ActualFinish"`
	ActualDuration  string    `xml:"ActualDuration"`
	CreateDate      string    `xml:"CreateDate"`
	Links           []xmlLink `xml:"PredecessorLink"`
}

type xmlLink struct {
	PredecessorUID string `xml:"PredecessorUID"`
	Type           string `xml:"Type"`
	LinkLag        string `xml:"LinkLag"`
	LagFormat      string `xml:"LagFormat"`
}
