// Package fasta parses and formats FASTA record streams.
package fasta

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Record is one header-plus-sequence unit of a FASTA stream.
type Record struct {
	ID          string `json:"id"`                    // first whitespace-delimited token of the header
	Description string `json:"description,omitempty"` // remainder of the header line
	Sequence    string `json:"sequence"`              // residue lines concatenated, whitespace stripped
}

// Header reconstructs the header line text (without the leading '>').
func (r Record) Header() string {
	if r.Description == "" {
		return r.ID
	}
	return r.ID + " " + r.Description
}

// MalformedInputError reports input whose record boundaries cannot be
// trusted, such as sequence data before the first header line. It is
// fatal for the whole stream.
type MalformedInputError struct {
	Line int
	Msg  string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input at line %d: %s", e.Line, e.Msg)
}

// Parse reads all records from r in file order. Blank lines are ignored
// and multi-line sequences are concatenated after stripping surrounding
// whitespace. Duplicate IDs are permitted; disambiguation is the
// caller's concern. Empty input yields an empty slice and no error.
func Parse(r io.Reader) ([]Record, error) {
	sc := bufio.NewScanner(r)
	// Some tools emit a whole chromosome on one line.
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var records []Record
	var cur *Record
	lineNo := 0

	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			if cur != nil {
				records = append(records, *cur)
			}
			id, desc := splitHeader(line[1:])
			cur = &Record{ID: id, Description: desc}
			continue
		}
		if cur == nil {
			return nil, &MalformedInputError{Line: lineNo, Msg: "sequence data before first header"}
		}
		cur.Sequence += line
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if cur != nil {
		records = append(records, *cur)
	}
	return records, nil
}

// splitHeader splits header text into the ID token and the description.
func splitHeader(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// Format renders rec back into FASTA wire format. wrap > 0 wraps the
// sequence at that many residues per line; wrap <= 0 emits the whole
// sequence on a single line.
func Format(rec Record, wrap int) string {
	var b strings.Builder
	b.WriteByte('>')
	b.WriteString(rec.Header())
	b.WriteByte('\n')

	if wrap <= 0 {
		b.WriteString(rec.Sequence)
		b.WriteByte('\n')
		return b.String()
	}
	for i := 0; i < len(rec.Sequence); i += wrap {
		end := min(i+wrap, len(rec.Sequence))
		b.WriteString(rec.Sequence[i:end])
		b.WriteByte('\n')
	}
	return b.String()
}
