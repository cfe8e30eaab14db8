package ndjson

import (
	"bytes"
	"strings"
)

const recordDelimiter = '\n'

// LineDecoder reassembles newline-delimited records from arbitrary chunks.
// Bytes are buffered, so a multi-byte rune split across chunks is only
// decoded once the whole record has arrived.
type LineDecoder struct {
	buf []byte
}

func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Feed appends chunk and returns every record completed by it. The trailing
// segment after the last delimiter stays buffered. Blank records are dropped.
func (d *LineDecoder) Feed(chunk []byte) []string {
	d.buf = append(d.buf, chunk...)

	var records []string
	for {
		i := bytes.IndexByte(d.buf, recordDelimiter)
		if i < 0 {
			break
		}

		segment := string(d.buf[:i])
		d.buf = d.buf[i+1:]
		if strings.TrimSpace(segment) == "" {
			continue
		}
		records = append(records, segment)
	}

	if len(d.buf) == 0 {
		d.buf = nil
	}

	return records
}

// Flush returns the unterminated remainder as a final record, if it holds
// anything besides whitespace. The buffer is empty afterwards.
func (d *LineDecoder) Flush() (string, bool) {
	rest := string(d.buf)
	d.buf = nil

	if strings.TrimSpace(rest) == "" {
		return "", false
	}
	return rest, true
}

// Buffered reports how many bytes are waiting for a delimiter.
func (d *LineDecoder) Buffered() int {
	return len(d.buf)
}
