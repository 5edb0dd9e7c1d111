// Package location maps issue paths such as "Patient.name[0].family" back
// to line and column positions in the JSON source.
package location

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var errNotFound = errors.New("path not found")

// Location is a 1-based position in the source JSON.
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Find returns the position of path in data: the opening quote of the last
// key, or the first byte of the last array element. A path naming only the
// root type points at the root value. Find returns nil when the path does
// not exist in data or data is not valid JSON.
func Find(data []byte, path string) *Location {
	if len(data) == 0 || path == "" {
		return nil
	}
	segments := Segments(path)

	dec := json.NewDecoder(bytes.NewReader(data))
	offset := 0
	if len(segments) > 0 {
		var err error
		if offset, err = navigate(dec, segments); err != nil {
			return nil
		}
	}
	offset = skipSeparators(data, offset)
	if offset >= len(data) {
		return nil
	}
	line, col := lineCol(data, offset)
	return &Location{Line: line, Column: col}
}

// Segments splits a path into keys and array indices, dropping a leading
// type name:
//
//	"Patient.identifier[0].value" -> ["identifier", "0", "value"]
func Segments(path string) []string {
	first, rest, found := strings.Cut(path, ".")
	if bracket := strings.IndexByte(first, '['); bracket >= 0 {
		first, rest, found = first[:bracket], path[bracket:], true
	}
	if first != "" && first[0] >= 'A' && first[0] <= 'Z' {
		if !found {
			return nil
		}
		path = rest
	}

	var segments []string
	for _, part := range strings.Split(path, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open < 0 {
				segments = append(segments, part)
				break
			}
			if open > 0 {
				segments = append(segments, part[:open])
			}
			end := strings.IndexByte(part[open:], ']')
			if end < 0 {
				segments = append(segments, part[open+1:])
				break
			}
			segments = append(segments, part[open+1:open+end])
			part = part[open+end+1:]
		}
	}
	return segments
}

// navigate walks dec to the value named by segments and returns the input
// offset just before it.
func navigate(dec *json.Decoder, segments []string) (int, error) {
	var offset int
	for i, seg := range segments {
		var err error
		if idx, convErr := strconv.Atoi(seg); convErr == nil {
			offset, err = toIndex(dec, idx)
		} else {
			offset, err = toKey(dec, seg)
		}
		if err != nil {
			return 0, fmt.Errorf("segment %d (%s): %w", i, seg, err)
		}
	}
	return offset, nil
}

// toKey consumes the object at the decoder position up to key. The decoder
// is left before the key's value.
func toKey(dec *json.Decoder, key string) (int, error) {
	if err := expect(dec, '{'); err != nil {
		return 0, err
	}
	for dec.More() {
		offset := int(dec.InputOffset())
		tok, err := dec.Token()
		if err != nil {
			return 0, err
		}
		if k, ok := tok.(string); ok && k == key {
			return offset, nil
		}
		if err := skipValue(dec); err != nil {
			return 0, err
		}
	}
	return 0, errNotFound
}

// toIndex consumes the array at the decoder position up to element idx.
func toIndex(dec *json.Decoder, idx int) (int, error) {
	if err := expect(dec, '['); err != nil {
		return 0, err
	}
	for i := 0; dec.More(); i++ {
		offset := int(dec.InputOffset())
		if i == idx {
			return offset, nil
		}
		if err := skipValue(dec); err != nil {
			return 0, err
		}
	}
	return 0, errNotFound
}

func expect(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return errNotFound
	}
	return nil
}

// skipValue consumes one complete value.
func skipValue(dec *json.Decoder) error {
	depth := 0
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			return nil
		}
	}
}

// skipSeparators advances past whitespace, commas and colons, which the
// decoder offset may still point at.
func skipSeparators(data []byte, offset int) int {
	for offset < len(data) {
		switch data[offset] {
		case ' ', '\t', '\r', '\n', ',', ':':
			offset++
		default:
			return offset
		}
	}
	return offset
}

func lineCol(data []byte, offset int) (line, col int) {
	line, col = 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
