package scaleseq_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scaleseq/scaleseq"
)

const justMajorSCL = `! just.scl
!
Just intonation major scale
 7
!
 9/8
 5/4
 4/3
 3/2
 5/3
 15/8
 2/1
`

func TestParseSCL(t *testing.T) {
	scale, err := scaleseq.ParseSCL(strings.NewReader(justMajorSCL), "just.scl")
	if err != nil {
		t.Fatalf("ParseSCL failed: %v", err)
	}
	if scale.Description != "Just intonation major scale" {
		t.Fatalf("unexpected description %q", scale.Description)
	}
	if scale.Count() != 7 {
		t.Fatalf("expected 7 tones, got %d", scale.Count())
	}
	if scale.Tones[3].Numerator != 3 || scale.Tones[3].Denominator != 2 {
		t.Fatalf("expected 3/2 as the fourth tone, got %v", scale.Tones[3])
	}
	if got := scale.Tones[3].Cents; math.Abs(got-701.955000865) > 1e-6 {
		t.Fatalf("3/2 should be 701.955 cents, got %v", got)
	}
	if scale.Period() != 1200 {
		t.Fatalf("expected an octave period, got %v", scale.Period())
	}
}

func TestParseSCLMixedTones(t *testing.T) {
	data := "description\r\n3\r\n100.0 cents, ignored\r\n3\r\n 1200.\r\nthis line is past the last tone\r\n"
	scale, err := scaleseq.ParseSCL(strings.NewReader(data), "mixed.scl")
	if err != nil {
		t.Fatalf("ParseSCL failed: %v", err)
	}
	if scale.Tones[0].Kind != scaleseq.CentsTone || scale.Tones[0].Cents != 100 {
		t.Fatalf("expected 100 cents as the first tone, got %+v", scale.Tones[0])
	}
	if scale.Tones[1].Kind != scaleseq.RatioTone || scale.Tones[1].Denominator != 1 {
		t.Fatalf("a whole number should be read as a ratio over 1, got %+v", scale.Tones[1])
	}
	if scale.Period() != 1200 {
		t.Fatalf("expected 1200 cents period, got %v", scale.Period())
	}
}

func TestParseSCLErrors(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"only comments":   "! nothing here\n!\n",
		"missing count":   "description\n",
		"bad count":       "description\nseven\n",
		"negative count":  "description\n-3\n",
		"too few tones":   "description\n3\n100.0\n200.0\n",
		"zero denom":      "description\n1\n3/0\n",
		"negative ratio":  "description\n1\n-3/2\n",
		"garbage tone":    "description\n1\nabc\n",
		"bad cents value": "description\n1\n1.2.3\n",
		"huge count":      "description\n9223372036854775807\n100.0\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scaleseq.ParseSCL(strings.NewReader(data), "bad.scl")
			if err == nil {
				t.Fatalf("expected an error")
			}
			if !errors.Is(err, scaleseq.ErrSCL) {
				t.Fatalf("expected error to wrap ErrSCL, got %v", err)
			}
			var perr *scaleseq.ParseError
			if !errors.As(err, &perr) || perr.Reason == "" {
				t.Fatalf("expected a ParseError with a reason, got %v", err)
			}
		})
	}
}

func TestReadSCLFileNamesTheScale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "just.scl")
	if err := os.WriteFile(path, []byte(justMajorSCL), 0644); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	scale, err := scaleseq.ReadSCLFile(path)
	if err != nil {
		t.Fatalf("ReadSCLFile failed: %v", err)
	}
	if scale.Name != "just.scl" {
		t.Fatalf("expected the scale to be named after the file, got %q", scale.Name)
	}
}
