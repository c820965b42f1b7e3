package msxml

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/chronos/internal/domain"
	"github.com/alexanderramin/chronos/internal/testutil"
)

func TestDecode_MetadataAndTasks(t *testing.T) {
	xml := testutil.BuildProjectXML("Warehouse Build",
		testutil.XMLTask{UID: "1", Name: "Design", Outline: "1"},
		testutil.XMLTask{UID: "2", Name: "Build", Outline: "2", Duration: "PT16H0M0S",
			Links: []testutil.XMLLink{{PredecessorUID: "1", Type: 1, Lag: 3, LagFormat: 7}},
		},
	)

	doc, err := Decode([]byte(xml))
	require.NoError(t, err)

	assert.Equal(t, "Warehouse Build", doc.Name)
	require.NotNil(t, doc.StartDate)
	assert.Equal(t, time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC), *doc.StartDate)
	require.NotNil(t, doc.StatusDate)
	assert.Equal(t, xml, doc.Template, "source bytes retained for export")

	require.Len(t, doc.Tasks, 2)
	design, build := doc.Tasks[0], doc.Tasks[1]
	assert.Equal(t, "1", design.UID)
	assert.Equal(t, "Design", design.Name)
	assert.Equal(t, "PT8H0M0S", design.Duration)

	require.Len(t, build.Predecessors, 1)
	link := build.Predecessors[0]
	assert.Equal(t, "1", link.PredecessorOutline, "UID reference resolved to an outline number")
	assert.Equal(t, domain.LinkFS, link.Type)
	assert.Equal(t, 3, link.Lag)
	assert.Equal(t, domain.LagWorkingDays, link.LagFormat)
}

func TestDecode_UnresolvableLinkDropped(t *testing.T) {
	xml := testutil.BuildProjectXML("P",
		testutil.XMLTask{UID: "1", Name: "A", Outline: "1",
			Links: []testutil.XMLLink{{PredecessorUID: "99", Type: 1, LagFormat: 7}},
		},
	)

	doc, err := Decode([]byte(xml))
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.Empty(t, doc.Tasks[0].Predecessors)
}

func TestDecode_MilestoneEmptyDurationNormalized(t *testing.T) {
	xml := `<Project xmlns="http://schemas.microsoft.com/project">
		<Name>P</Name>
		<Tasks><Task>
			<UID>1</UID><Name>Done</Name>
			<OutlineNumber>1</OutlineNumber><OutlineLevel>1</OutlineLevel>
			<Duration></Duration><Milestone>1</Milestone>
		</Task></Tasks>
	</Project>`

	doc, err := Decode([]byte(xml))
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.True(t, doc.Tasks[0].Milestone)
	assert.Equal(t, "PT0H0M0S", doc.Tasks[0].Duration)
}

func TestDecode_OutlineLevelDefaultsFromDepth(t *testing.T) {
	xml := `<Project><Name>P</Name><Tasks><Task>
		<UID>1</UID><Name>A</Name>
		<OutlineNumber>1.2.3</OutlineNumber>
		<Duration>PT8H0M0S</Duration>
	</Task></Tasks></Project>`

	doc, err := Decode([]byte(xml))
	require.NoError(t, err)
	require.Len(t, doc.Tasks, 1)
	assert.Equal(t, 3, doc.Tasks[0].OutlineLevel)
}

func TestDecode_TitleFallbackAndLinkDefaults(t *testing.T) {
	// No <Name>: the document title names the project. A link with no Type
	// or LagFormat defaults to finish-to-start in working days.
	xml := `<Project><Title>Fallback Title</Title><Tasks>
		<Task><UID>1</UID><Name>A</Name><OutlineNumber>1</OutlineNumber><Duration>PT8H0M0S</Duration></Task>
		<Task><UID>2</UID><Name>B</Name><OutlineNumber>2</OutlineNumber><Duration>PT8H0M0S</Duration>
			<PredecessorLink><PredecessorUID>1</PredecessorUID></PredecessorLink>
		</Task>
	</Tasks></Project>`

	doc, err := Decode([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, "Fallback Title", doc.Name)
	require.Len(t, doc.Tasks, 2)
	require.Len(t, doc.Tasks[1].Predecessors, 1)
	assert.Equal(t, domain.LinkFS, doc.Tasks[1].Predecessors[0].Type)
	assert.Equal(t, domain.LagWorkingDays, doc.Tasks[1].Predecessors[0].LagFormat)
}

func TestDecode_MalformedXML(t *testing.T) {
	_, err := Decode([]byte("<Project><Tasks><Task></Project>"))
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}
