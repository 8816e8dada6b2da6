package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepNavigation(t *testing.T) {
	assert.Equal(t, StepPoints, StepBasics.Next())
	assert.Equal(t, StepExport, StepExport.Next(), "last step has no successor")
	assert.Equal(t, StepBasics, StepBasics.Prev(), "first step has no predecessor")
	assert.Equal(t, StepStay, StepOverview.Prev())

	for s := FirstStep; s <= LastStep; s++ {
		assert.NotEmpty(t, s.Title())
		if s < LastStep {
			assert.Equal(t, s, s.Next().Prev())
		}
	}
}

func TestCanJumpTo(t *testing.T) {
	assert.True(t, StepStay.CanJumpTo(StepBasics))
	assert.True(t, StepStay.CanJumpTo(StepStay))
	assert.False(t, StepStay.CanJumpTo(StepOverview))
	assert.False(t, StepStay.CanJumpTo(Step(0)))
}

func TestParseStep(t *testing.T) {
	s, err := ParseStep(3)
	require.NoError(t, err)
	assert.Equal(t, StepTransport, s)

	_, err = ParseStep(7)
	require.ErrorIs(t, err, ErrInvalidStep)
	_, err = ParseStep(0)
	require.ErrorIs(t, err, ErrInvalidStep)
}

func TestProgress(t *testing.T) {
	p := Progress(StepTransport)
	require.Len(t, p, 6)
	assert.True(t, p[0].Reachable)
	assert.True(t, p[2].Current)
	assert.True(t, p[2].Reachable)
	assert.False(t, p[3].Reachable)
	assert.False(t, p[5].Current)
}
