// Package position defines the Position and PositionList value types that
// every index entry in the corpus decodes into: a located occurrence of an
// annotation value, scoped to a document and (optionally) a sentence.
package position

import (
	"encoding/binary"
	"fmt"
	"time"
)

// DocumentLevel is the sentinel sentence id for a document-scoped position.
const DocumentLevel = -1

// Position is a single occurrence: which document, which sentence (or
// DocumentLevel), the character span, and the calendar day it falls on (zero
// value if the annotation carries no date).
//
// Immutable once constructed; decoded verbatim from index bytes by an
// internal/index.Access implementation.
type Position struct {
	DocID  int
	SentID int
	Begin  int
	End    int
	Date   time.Time
}

// New constructs a Position, normalizing SentID<0 to DocumentLevel.
func New(docID, sentID, begin, end int, date time.Time) Position {
	if sentID < 0 {
		sentID = DocumentLevel
	}
	return Position{DocID: docID, SentID: sentID, Begin: begin, End: end, Date: date}
}

// IsDocumentLevel reports whether this position has no sentence scope.
func (p Position) IsDocumentLevel() bool {
	return p.SentID == DocumentLevel
}

func (p Position) String() string {
	if p.IsDocumentLevel() {
		return fmt.Sprintf("doc=%d[%d:%d]", p.DocID, p.Begin, p.End)
	}
	return fmt.Sprintf("doc=%d sent=%d[%d:%d]", p.DocID, p.SentID, p.Begin, p.End)
}

// List is an ordered sequence of Positions. Order of insertion is preserved;
// a single (doc,sent) pair may recur across many Positions (one per
// occurrence).
type List []Position

// Append returns a new List with p appended, preserving insertion order.
func (l List) Append(p Position) List {
	return append(l, p)
}

// Encode serializes a List to bytes: a 4-byte count followed by, per
// position, docID/sentID/begin/end (int64 each, big-endian) and the date as
// Unix seconds in an int64 (0 meaning "no date").
func Encode(l List) []byte {
	buf := make([]byte, 0, 4+len(l)*40)
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(l)))
	buf = append(buf, countBuf[:]...)

	var scratch [8]byte
	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(scratch[:], uint64(v))
		buf = append(buf, scratch[:]...)
	}

	for _, p := range l {
		writeInt(int64(p.DocID))
		writeInt(int64(p.SentID))
		writeInt(int64(p.Begin))
		writeInt(int64(p.End))
		var dayUnix int64
		if !p.Date.IsZero() {
			dayUnix = p.Date.Unix()
		}
		writeInt(dayUnix)
	}
	return buf
}

// Decode parses bytes produced by Encode back into a List.
func Decode(data []byte) (List, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("position: truncated list header (%d bytes)", len(data))
	}
	count := int(binary.BigEndian.Uint32(data[:4]))
	data = data[4:]

	const entrySize = 40
	if len(data) < count*entrySize {
		return nil, fmt.Errorf("position: truncated list body: want %d entries (%d bytes), have %d bytes",
			count, count*entrySize, len(data))
	}

	out := make(List, 0, count)
	readInt := func(b []byte) int64 {
		return int64(binary.BigEndian.Uint64(b))
	}
	for i := 0; i < count; i++ {
		off := i * entrySize
		docID := readInt(data[off : off+8])
		sentID := readInt(data[off+8 : off+16])
		begin := readInt(data[off+16 : off+24])
		end := readInt(data[off+24 : off+32])
		dayUnix := readInt(data[off+32 : off+40])
		var date time.Time
		if dayUnix != 0 {
			date = time.Unix(dayUnix, 0).UTC()
		}
		out = append(out, Position{
			DocID:  int(docID),
			SentID: int(sentID),
			Begin:  int(begin),
			End:    int(end),
			Date:   date,
		})
	}
	return out, nil
}
