package commits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGridSetCellBounds(t *testing.T) {
	g := NewGrid(4, 2)

	g.SetCell(0, 0, 'a', Style{})
	g.SetCell(1, 3, 'b', Style{})
	// Out-of-range writes are dropped, not panics.
	g.SetCell(-1, 0, 'x', Style{})
	g.SetCell(0, 4, 'x', Style{})
	g.SetCell(2, 0, 'x', Style{})

	assert.Equal(t, "a", g.Line(0))
	assert.Equal(t, "   b", g.Line(1))
}

func TestGridWideGlyphConsumesTwoColumns(t *testing.T) {
	g := NewGrid(6, 1)
	g.SetCell(0, 0, '漢', Style{})
	g.SetCell(0, 2, '!', Style{})

	assert.Equal(t, "漢!", g.Line(0))
}

func TestGridString(t *testing.T) {
	g := NewGrid(3, 2)
	g.SetCell(0, 0, 'x', Style{})
	g.SetCell(1, 1, 'y', Style{})

	assert.Equal(t, "x\n y", g.String())
}

func TestMonoGridReportsNoColor(t *testing.T) {
	assert.False(t, NewMonoGrid(1, 1).ColorSupport())
	assert.True(t, NewGrid(1, 1).ColorSupport())
}

func TestCharsetFallsBackToUnicode(t *testing.T) {
	assert.Equal(t, CharsetFor(ProfileUnicode), CharsetFor(Profile("bogus")))
	assert.Equal(t, 'o', CharsetFor(ProfileASCIIRich).Commit)
	assert.Equal(t, '|', CharsetFor(ProfileASCII).Vertical)
}
