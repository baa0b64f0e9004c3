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


package storage

import (
	"time"

	"github.com/mus-format/mus-go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/recall/core"
)

// MUS serializers for the stored entity types. The three stored types are
// small, so the serializers are written by hand rather than generated.
var (
	IndexEntryMUS = indexEntrySer{}
	TurnMUS       = turnSer{}
	DocumentMUS   = documentSer{}

	vectorMUS = ord.NewSliceSer[float32](raw.Float32)
)

var (
	_ mus.Serializer[core.IndexEntry] = indexEntrySer{}
	_ mus.Serializer[core.Turn]       = turnSer{}
	_ mus.Serializer[core.Document]   = documentSer{}
)

// MarshalIndexEntry serializes an IndexEntry to bytes.
func MarshalIndexEntry(entry *core.IndexEntry) []byte {
	buf := make([]byte, IndexEntryMUS.Size(*entry))
	IndexEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalIndexEntry deserializes an IndexEntry from bytes.
func UnmarshalIndexEntry(data []byte) (*core.IndexEntry, error) {
	entry, _, err := IndexEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarshalTurn serializes a Turn to bytes.
func MarshalTurn(turn *core.Turn) []byte {
	buf := make([]byte, TurnMUS.Size(*turn))
	TurnMUS.Marshal(*turn, buf)
	return buf
}

// UnmarshalTurn deserializes a Turn from bytes.
func UnmarshalTurn(data []byte) (*core.Turn, error) {
	turn, _, err := TurnMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, DocumentMUS.Size(*doc))
	DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

type indexEntrySer struct{}

func (indexEntrySer) Marshal(e core.IndexEntry, bs []byte) (n int) {
	n = ord.String.Marshal(e.SessionID, bs)
	n += varint.Int.Marshal(e.ChunkIndex, bs[n:])
	n += ord.String.Marshal(e.Text, bs[n:])
	n += vectorMUS.Marshal(e.Vector, bs[n:])
	return n
}

func (indexEntrySer) Unmarshal(bs []byte) (e core.IndexEntry, n int, err error) {
	var n1 int
	if e.SessionID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if e.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	e.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	return e, n + n1, err
}

func (indexEntrySer) Size(e core.IndexEntry) (size int) {
	size = ord.String.Size(e.SessionID)
	size += varint.Int.Size(e.ChunkIndex)
	size += ord.String.Size(e.Text)
	size += vectorMUS.Size(e.Vector)
	return size
}

func (indexEntrySer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	if n1, err = varint.Int.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = vectorMUS.Skip(bs[n:])
	return n + n1, err
}

type turnSer struct{}

func (turnSer) Marshal(t core.Turn, bs []byte) (n int) {
	n = varint.Int.Marshal(int(t.Role), bs)
	n += ord.String.Marshal(t.Content, bs[n:])
	n += varint.Int64.Marshal(t.Timestamp.UnixMicro(), bs[n:])
	return n
}

func (turnSer) Unmarshal(bs []byte) (t core.Turn, n int, err error) {
	var (
		n1   int
		role int
		usec int64
	)
	if role, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	t.Role = core.Role(role)
	if t.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + n1, err
	}
	n += n1
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	t.Timestamp = time.UnixMicro(usec).UTC()
	return t, n + n1, err
}

func (turnSer) Size(t core.Turn) (size int) {
	size = varint.Int.Size(int(t.Role))
	size += ord.String.Size(t.Content)
	size += varint.Int64.Size(t.Timestamp.UnixMicro())
	return size
}

func (turnSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = varint.Int.Skip(bs); err != nil {
		return
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = varint.Int64.Skip(bs[n:])
	return n + n1, err
}

type documentSer struct{}

func (documentSer) Marshal(d core.Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.SessionID, bs)
	n += ord.String.Marshal(d.Text, bs[n:])
	n += varint.Uint64.Marshal(uint64(d.Fingerprint), bs[n:])
	n += varint.Int64.Marshal(d.UploadedAt.UnixMicro(), bs[n:])
	return n
}

func (documentSer) Unmarshal(bs []byte) (d core.Document, n int, err error) {
	var (
		n1   int
		fp   uint64
		usec int64
	)
	if d.SessionID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if d.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	if fp, n1, err = varint.Uint64.Unmarshal(bs[n:]); err != nil {
		return d, n + n1, err
	}
	n += n1
	d.Fingerprint = core.Fingerprint(fp)
	usec, n1, err = varint.Int64.Unmarshal(bs[n:])
	d.UploadedAt = time.UnixMicro(usec).UTC()
	return d, n + n1, err
}

func (documentSer) Size(d core.Document) (size int) {
	size = ord.String.Size(d.SessionID)
	size += ord.String.Size(d.Text)
	size += varint.Uint64.Size(uint64(d.Fingerprint))
	size += varint.Int64.Size(d.UploadedAt.UnixMicro())
	return size
}

func (documentSer) Skip(bs []byte) (n int, err error) {
	var n1 int
	if n, err = ord.String.Skip(bs); err != nil {
		return
	}
	if n1, err = ord.String.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	if n1, err = varint.Uint64.Skip(bs[n:]); err != nil {
		return n + n1, err
	}
	n += n1
	n1, err = varint.Int64.Skip(bs[n:])
	return n + n1, err
}
