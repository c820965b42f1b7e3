package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOutlineNumber(t *testing.T) {
	valid := []string{"1", "9", "10", "1.1", "1.2.3", "2.10", "100.200.300"}
	for _, s := range valid {
		assert.True(t, ValidOutlineNumber(s), s)
	}

	invalid := []string{"", "0", "01", "1.0", "1.01", ".1", "1.", "1..2", "a", "1.a", "-1", "1.-2", "1 .2"}
	for _, s := range invalid {
		assert.False(t, ValidOutlineNumber(s), s)
	}
}

func TestOutlineDepth(t *testing.T) {
	assert.Equal(t, 0, OutlineDepth(""))
	assert.Equal(t, 1, OutlineDepth("1"))
	assert.Equal(t, 2, OutlineDepth("1.2"))
	assert.Equal(t, 3, OutlineDepth("1.2.3"))
}

func TestCompareOutlines_NumericSegmentOrder(t *testing.T) {
	// 1.2 sorts before 1.10, unlike a plain string compare.
	assert.Equal(t, -1, CompareOutlines("1.2", "1.10"))
	assert.Equal(t, 1, CompareOutlines("1.10", "1.2"))
	assert.Equal(t, -1, CompareOutlines("2", "10"))
	assert.Equal(t, 0, CompareOutlines("1.2.3", "1.2.3"))

	// Parents sort before their children.
	assert.Equal(t, -1, CompareOutlines("1", "1.1"))
	assert.Equal(t, 1, CompareOutlines("1.1.1", "1.1"))
}

func TestOutlineParent(t *testing.T) {
	assert.Equal(t, "", OutlineParent("1"))
	assert.Equal(t, "1", OutlineParent("1.2"))
	assert.Equal(t, "1.2", OutlineParent("1.2.3"))
}

func TestIsOutlineDescendant(t *testing.T) {
	assert.True(t, IsOutlineDescendant("1.2", "1"))
	assert.True(t, IsOutlineDescendant("1.2.3", "1"))
	assert.False(t, IsOutlineDescendant("1", "1"))
	assert.False(t, IsOutlineDescendant("10.1", "1"))
	assert.False(t, IsOutlineDescendant("2.1", "1"))
}
