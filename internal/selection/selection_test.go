package selection

import (
	"errors"
	"fmt"
	"testing"

	"github.com/philipparndt/gocad/internal/history"
	"github.com/philipparndt/gocad/internal/logging"
	"github.com/philipparndt/gocad/pkg/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	step, parameter, sketch string
	indices                 []int
}

type recorder struct {
	calls []call
	err   error
}

func (r *recorder) SetSelectedForOperation(step, parameter, sketch string, indices []int) (*kernel.View, error) {
	r.calls = append(r.calls, call{step, parameter, sketch, indices})
	if r.err != nil {
		return nil, r.err
	}
	return &kernel.View{}, nil
}

var extrudeFaces = Request{StepName: "Extrude1", ParameterName: "faces", SketchName: "Sketch1"}

func TestFaceLabel(t *testing.T) {
	assert.Equal(t, "Sketch1::Face 3", FaceLabel("Sketch1", 3))
}

func TestToggleTwiceRestoresSelection(t *testing.T) {
	c := New(&recorder{}, logging.Nop())
	_, err := c.Toggle("Sketch1", 1)
	require.NoError(t, err)
	_, err = c.Toggle("Sketch1", 4)
	require.NoError(t, err)
	before := c.Selected()

	_, err = c.Toggle("Sketch1", 7)
	require.NoError(t, err)
	_, err = c.Toggle("Sketch1", 7)
	require.NoError(t, err)

	assert.Equal(t, before, c.Selected())
}

func TestToggleRemovalKeepsOrder(t *testing.T) {
	c := New(&recorder{}, logging.Nop())
	for _, f := range []int{3, 1, 2} {
		_, err := c.Toggle("Sketch1", f)
		require.NoError(t, err)
	}
	_, err := c.Toggle("Sketch1", 1)
	require.NoError(t, err)

	assert.Equal(t, []Option{
		{Value: "3", Label: "Sketch1::Face 3"},
		{Value: "2", Label: "Sketch1::Face 2"},
	}, c.Selected())
	assert.True(t, c.IsSelected("Sketch1", 2))
	assert.False(t, c.IsSelected("Sketch1", 1))
}

func TestToggleWithoutRequestDoesNotCommit(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())

	view, err := c.Toggle("Sketch1", 0)
	require.NoError(t, err)
	assert.Nil(t, view)
	assert.Empty(t, r.calls)

	_, err = c.Commit()
	assert.ErrorIs(t, err, ErrNoRequest)
}

func TestFocusCommitsSeededFaces(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())

	view, err := c.Focus(extrudeFaces, []int{2, 5})
	require.NoError(t, err)
	require.NotNil(t, view)

	require.Len(t, r.calls, 1)
	assert.Equal(t, call{"Extrude1", "faces", "Sketch1", []int{2, 5}}, r.calls[0])

	active, ok := c.Active()
	require.True(t, ok)
	assert.Equal(t, extrudeFaces, active)
}

func TestToggleWhileFocusedCommits(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())
	_, err := c.Focus(extrudeFaces, []int{0})
	require.NoError(t, err)

	_, err = c.Toggle("Sketch1", 1)
	require.NoError(t, err)
	_, err = c.Toggle("Sketch1", 0)
	require.NoError(t, err)

	require.Len(t, r.calls, 3)
	assert.Equal(t, []int{0, 1}, r.calls[1].indices)
	assert.Equal(t, []int{1}, r.calls[2].indices)
}

func TestIdenticalCommitsAreDeduplicated(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())

	_, err := c.Focus(extrudeFaces, []int{2, 5})
	require.NoError(t, err)
	view, err := c.Focus(extrudeFaces, []int{2, 5})
	require.NoError(t, err)
	assert.Nil(t, view)

	_, err = c.SetValues([]string{"2", "5"})
	require.NoError(t, err)
	assert.Len(t, r.calls, 1)

	// Different order is a different selection
	_, err = c.SetValues([]string{"5", "2"})
	require.NoError(t, err)
	assert.Len(t, r.calls, 2)
}

func TestFailedCommitIsRetried(t *testing.T) {
	r := &recorder{err: errors.New("rejected")}
	c := New(r, logging.Nop())

	_, err := c.Focus(extrudeFaces, []int{1})
	require.Error(t, err)

	r.err = nil
	_, err = c.Commit()
	require.NoError(t, err)
	assert.Len(t, r.calls, 2)
}

func TestBlurKeepsSelection(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())
	_, err := c.Focus(extrudeFaces, []int{1})
	require.NoError(t, err)

	c.Blur()
	_, ok := c.Active()
	assert.False(t, ok)
	assert.Len(t, c.Selected(), 1)

	_, err = c.Toggle("Sketch1", 2)
	require.NoError(t, err)
	assert.Len(t, r.calls, 1)

	c.Clear()
	assert.Empty(t, c.Selected())
}

func TestSetValuesRejectsGarbage(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())
	_, err := c.Focus(extrudeFaces, []int{2, 5})
	require.NoError(t, err)
	before := c.Selected()

	_, err = c.SetValues([]string{"1", "x"})
	assert.Error(t, err)
	assert.Equal(t, before, c.Selected())
	assert.Len(t, r.calls, 1)
}

func TestRecomputeFailureCountsAsCommitted(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())
	_, err := c.Focus(extrudeFaces, []int{0})
	require.NoError(t, err)

	r.err = fmt.Errorf("%w: %w", history.ErrRecompute, errors.New("engine down"))
	_, err = c.Toggle("Sketch1", 1)
	require.ErrorIs(t, err, history.ErrRecompute)

	r.err = nil
	_, err = c.Toggle("Sketch1", 1)
	require.NoError(t, err)
	require.Len(t, r.calls, 3)
	assert.Equal(t, []int{0}, r.calls[2].indices)
}

func TestRejectedCommitForgetsLastSelection(t *testing.T) {
	r := &recorder{}
	c := New(r, logging.Nop())
	_, err := c.Focus(extrudeFaces, []int{0})
	require.NoError(t, err)

	r.err = errors.New("rejected")
	_, err = c.Toggle("Sketch1", 1)
	require.Error(t, err)

	// Back to the committed set, sent again since the history state is unknown
	r.err = nil
	_, err = c.Toggle("Sketch1", 1)
	require.NoError(t, err)
	assert.Len(t, r.calls, 3)
}
