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

// SCLExtension is the suffix a scale file path must have to be parsed.
const SCLExtension = ".scl"

// ReadSCLFile opens and parses a Scala scale file. The returned Scale is named
// after the base name of the file.
func ReadSCLFile(path string) (Scale, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scale{}, fmt.Errorf("could not open scale file: %w", err)
	}
	defer f.Close()
	return ParseSCL(f, filepath.Base(path))
}

// ParseSCL parses Scala scale data. Lines starting with '!' are comments. The
// first other line is the description, the second is the number of tones, and
// then exactly that many tones follow, one per line. A tone containing a
// period is in cents; otherwise it is a ratio like 3/2, or a whole number
// like 2 meaning 2/1. Anything after the first field on a tone line is
// ignored, as are lines after the last tone.
func ParseSCL(r io.Reader, name string) (Scale, error) {
	fail := func(line int, format string, args ...any) (Scale, error) {
		return Scale{}, &ParseError{File: name, Line: line, Reason: fmt.Sprintf(format, args...), kind: ErrSCL}
	}
	scale := Scale{Name: name}
	const (
		readDescription = iota
		readCount
		readTones
		done
	)
	state := readDescription
	count := 0
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() && state != done {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "!") {
			continue
		}
		switch state {
		case readDescription:
			scale.Description = strings.TrimSpace(line)
			state = readCount
		case readCount:
			field := firstField(line)
			if field == "" {
				return fail(lineNo, "missing number of notes")
			}
			n, err := strconv.Atoi(field)
			if err != nil {
				return fail(lineNo, "number of notes %q is not an integer", field)
			}
			if n < 0 {
				return fail(lineNo, "negative number of notes %d", n)
			}
			count = n
			scale.Tones = make([]Tone, 0, min(count, NumNotes))
			state = readTones
			if count == 0 {
				state = done
			}
		case readTones:
			field := firstField(line)
			if field == "" {
				return fail(lineNo, "empty line where a tone was expected")
			}
			tone, err := parseTone(field)
			if err != nil {
				return fail(lineNo, "%v", err)
			}
			scale.Tones = append(scale.Tones, tone)
			if len(scale.Tones) == count {
				state = done
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Scale{}, fmt.Errorf("could not read scale data: %w", err)
	}
	switch state {
	case readDescription:
		return fail(0, "no description line; the file is empty")
	case readCount:
		return fail(0, "missing number of notes")
	case readTones:
		return fail(0, "read %d notes but the file declares %d", len(scale.Tones), count)
	}
	return scale, nil
}

func parseTone(field string) (Tone, error) {
	if strings.Contains(field, ".") {
		cents, err := strconv.ParseFloat(field, 64)
		if err != nil || math.IsNaN(cents) || math.IsInf(cents, 0) {
			return Tone{}, fmt.Errorf("invalid cents value %q", field)
		}
		return Tone{Kind: CentsTone, Cents: cents}, nil
	}
	numStr, denStr, isRatio := strings.Cut(field, "/")
	if !isRatio {
		denStr = "1"
	}
	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return Tone{}, fmt.Errorf("invalid ratio numerator %q", numStr)
	}
	den, err := strconv.ParseInt(denStr, 10, 64)
	if err != nil {
		return Tone{}, fmt.Errorf("invalid ratio denominator %q", denStr)
	}
	if den == 0 {
		return Tone{}, fmt.Errorf("ratio %q has a zero denominator", field)
	}
	if num <= 0 || den < 0 {
		return Tone{}, fmt.Errorf("ratio %q is not positive", field)
	}
	return RatioToneOf(num, den), nil
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
