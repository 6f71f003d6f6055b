package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"

	"github.com/philipparndt/gocad/pkg/geometry"
)

// WriteASCII encodes the model as an ASCII STL document
func WriteASCII(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", m.Name)
	for _, t := range m.Triangles {
		fmt.Fprintf(bw, "  facet normal %s %s %s\n", num(t.Normal.X), num(t.Normal.Y), num(t.Normal.Z))
		fmt.Fprintln(bw, "    outer loop")
		for _, v := range [3]geometry.Vector3{t.V1, t.V2, t.V3} {
			fmt.Fprintf(bw, "      vertex %s %s %s\n", num(v.X), num(v.Y), num(v.Z))
		}
		fmt.Fprintln(bw, "    endloop")
		fmt.Fprintln(bw, "  endfacet")
	}
	fmt.Fprintf(bw, "endsolid %s\n", m.Name)
	return bw.Flush()
}

// WriteBinary encodes the model as a binary STL document. Names longer than
// the header are truncated.
func WriteBinary(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)

	var header [binaryHeaderSize]byte
	copy(header[:], m.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		bt := binaryTriangle{Normal: vec32(t.Normal), V1: vec32(t.V1), V2: vec32(t.V2), V3: vec32(t.V3)}
		if err := binary.Write(bw, binary.LittleEndian, &bt); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'e', 6, 64)
}
