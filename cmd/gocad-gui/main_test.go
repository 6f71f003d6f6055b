package main

import (
	"testing"

	"github.com/philipparndt/gocad/internal/selection"
	"github.com/stretchr/testify/assert"
)

func TestFaceValues(t *testing.T) {
	assert.Equal(t, []string{"0", "2", "5"}, faceValues(" 0, 2 5,"))
	assert.Empty(t, faceValues(""))
	assert.Equal(t, []string{"x"}, faceValues("x"))
}

func TestJoinFaces(t *testing.T) {
	options := []selection.Option{
		{Value: "2", Label: selection.FaceLabel("Sketch1", 2)},
		{Value: "0", Label: selection.FaceLabel("Sketch1", 0)},
	}
	assert.Equal(t, "2, 0", joinFaces(options))
	assert.Equal(t, "", joinFaces(nil))
}
