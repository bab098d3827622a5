package scaleseq

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// KBMExtension is the suffix a keyboard mapping file path must have to be
// parsed.
const KBMExtension = ".kbm"

// ReadKBMFile opens and parses a Scala keyboard mapping file. The returned
// Mapping is named after the base name of the file.
func ReadKBMFile(path string) (Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("could not open mapping file: %w", err)
	}
	defer f.Close()
	return ParseKBM(f, filepath.Base(path))
}

var kbmHeader = [...]string{
	"map size",
	"first MIDI note",
	"last MIDI note",
	"middle note",
	"reference note",
	"reference frequency",
	"formal octave degree",
}

// ParseKBM parses Scala keyboard mapping data: after '!' comment lines, seven
// header values (map size, first and last retuned MIDI note, middle note,
// reference note, reference frequency and formal octave degree) are followed
// by one line per key of the map, each a scale degree or "x" for an unmapped
// key.
func ParseKBM(r io.Reader, name string) (Mapping, error) {
	fail := func(line int, format string, args ...any) (Mapping, error) {
		return Mapping{}, &ParseError{File: name, Line: line, Reason: fmt.Sprintf(format, args...), kind: ErrKBM}
	}
	m := Mapping{Name: name}
	var header [len(kbmHeader)]float64
	field := 0
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		value := firstField(line)
		if field < len(header) {
			if value == "" {
				return fail(lineNo, "missing %s", kbmHeader[field])
			}
			if field == 5 {
				f, err := strconv.ParseFloat(value, 64)
				if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
					return fail(lineNo, "%s %q is not a number", kbmHeader[field], value)
				}
				header[field] = f
			} else {
				i, err := strconv.ParseInt(value, 10, 32)
				if err != nil {
					return fail(lineNo, "%s %q is not an integer in range", kbmHeader[field], value)
				}
				header[field] = float64(i)
			}
			field++
			if field == len(header) {
				if err := m.setHeader(header); err != "" {
					return fail(lineNo, "%s", err)
				}
				m.Keys = make([]int, 0, min(m.Size, NumNotes))
			}
			continue
		}
		if len(m.Keys) == m.Size {
			break
		}
		if value == "" {
			return fail(lineNo, "empty line where a key mapping was expected")
		}
		if value == "x" || value == "X" {
			m.Keys = append(m.Keys, Unmapped)
			continue
		}
		degree, err := strconv.Atoi(value)
		if err != nil {
			return fail(lineNo, "key mapping %q is neither a scale degree nor x", value)
		}
		if degree < 0 {
			return fail(lineNo, "negative scale degree %d", degree)
		}
		m.Keys = append(m.Keys, degree)
	}
	if err := scanner.Err(); err != nil {
		return Mapping{}, fmt.Errorf("could not read mapping data: %w", err)
	}
	if field < len(header) {
		return fail(0, "missing %s", kbmHeader[field])
	}
	if len(m.Keys) < m.Size {
		return fail(0, "read %d key mappings but the map size is %d", len(m.Keys), m.Size)
	}
	return m, nil
}

func (m *Mapping) setHeader(h [len(kbmHeader)]float64) string {
	m.Size = int(h[0])
	m.FirstNote = int(h[1])
	m.LastNote = int(h[2])
	m.MiddleNote = int(h[3])
	m.ReferenceNote = int(h[4])
	m.ReferenceFrequency = h[5]
	m.OctaveDegree = int(h[6])
	switch {
	case m.Size < 0:
		return fmt.Sprintf("negative map size %d", m.Size)
	case !validNote(m.FirstNote), !validNote(m.LastNote), !validNote(m.MiddleNote), !validNote(m.ReferenceNote):
		return "MIDI notes must be between 0 and 127"
	case m.FirstNote > m.LastNote:
		return fmt.Sprintf("first MIDI note %d is above the last %d", m.FirstNote, m.LastNote)
	case m.ReferenceFrequency <= 0:
		return fmt.Sprintf("reference frequency %v is not positive", m.ReferenceFrequency)
	case m.OctaveDegree < 0:
		return fmt.Sprintf("negative formal octave degree %d", m.OctaveDegree)
	}
	return ""
}

func validNote(n int) bool {
	return n >= 0 && n < NumNotes
}
