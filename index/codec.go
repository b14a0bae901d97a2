// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"fmt"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// vectorTable is the persisted form of the vector artifact: the embedding
// dimension followed by all row vectors in build order.
type vectorTable struct {
	Dim     int
	Vectors [][]float32
}

var vecSer = ord.NewSliceSer[float32](raw.Float32)

// vectorTableMUS serializes the vector table with MUS framing:
// varint dimension, varint row count, rows of raw float32 slices.
var vectorTableMUS = vectorTableSer{}

type vectorTableSer struct{}

var _ mus.Serializer[vectorTable] = vectorTableSer{}

func (vectorTableSer) Marshal(t vectorTable, bs []byte) (n int) {
	n = varint.PositiveInt.Marshal(t.Dim, bs)
	n += varint.PositiveInt.Marshal(len(t.Vectors), bs[n:])
	for _, v := range t.Vectors {
		n += vecSer.Marshal(v, bs[n:])
	}
	return
}

func (vectorTableSer) Unmarshal(bs []byte) (t vectorTable, n int, err error) {
	t.Dim, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}

	var count, n1 int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	t.Vectors = make([][]float32, 0, count)
	for i := 0; i < count; i++ {
		var v []float32
		v, n1, err = vecSer.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
		if len(v) != t.Dim {
			err = fmt.Errorf("%w: row %d has dimension %d, want %d", ErrCorruptArtifact, i, len(v), t.Dim)
			return
		}
		t.Vectors = append(t.Vectors, v)
	}
	return
}

func (vectorTableSer) Size(t vectorTable) (size int) {
	size = varint.PositiveInt.Size(t.Dim)
	size += varint.PositiveInt.Size(len(t.Vectors))
	for _, v := range t.Vectors {
		size += vecSer.Size(v)
	}
	return
}

func (vectorTableSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	_, n, err = varint.PositiveInt.Unmarshal(bs)
	if err != nil {
		return
	}

	var count int
	count, n1, err = varint.PositiveInt.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	for i := 0; i < count; i++ {
		n1, err = vecSer.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

// marshalVectorTable serializes a vector table to bytes.
func marshalVectorTable(t vectorTable) []byte {
	buf := make([]byte, vectorTableMUS.Size(t))
	vectorTableMUS.Marshal(t, buf)
	return buf
}

// unmarshalVectorTable deserializes a vector table from bytes.
func unmarshalVectorTable(data []byte) (vectorTable, error) {
	t, _, err := vectorTableMUS.Unmarshal(data)
	return t, err
}
