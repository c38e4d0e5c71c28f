// internal/judge/compare.go
package judge

import (
	"bufio"
	"io"
	"strings"
)

// Comparison classifies the outcome of an output comparison.
type Comparison int

const (
	ExactMatch     Comparison = iota // every line pair byte-identical
	FormatMismatch                   // identical after whitespace/case normalization only
	WrongAnswer                      // content differs, or line counts differ
)

func (c Comparison) String() string {
	switch c {
	case ExactMatch:
		return "exact match"
	case FormatMismatch:
		return "format mismatch"
	default:
		return "wrong answer"
	}
}

// Compare walks both outputs line by line in lockstep and classifies the
// result. Lines keep their terminators, so a missing final newline is a
// byte-level difference. Memory is bounded by the longest line, not the file.
//
// A line pair that differs byte-for-byte is re-compared after removing all
// whitespace and lowercasing; if the normalized forms match, scanning
// continues with a format-mismatch flag raised. Any remaining difference, or
// one stream ending before the other, short-circuits to WrongAnswer.
func Compare(actual, expected io.Reader) (Comparison, error) {
	actualR := bufio.NewReader(actual)
	expectedR := bufio.NewReader(expected)

	formatMismatch := false
	for {
		actualLine, actualOK, err := readLine(actualR)
		if err != nil {
			return WrongAnswer, err
		}
		expectedLine, expectedOK, err := readLine(expectedR)
		if err != nil {
			return WrongAnswer, err
		}

		if !actualOK && !expectedOK {
			break
		}
		if !actualOK || !expectedOK {
			return WrongAnswer, nil
		}
		if actualLine == expectedLine {
			continue
		}
		if normalizeLine(actualLine) == normalizeLine(expectedLine) {
			formatMismatch = true
			continue
		}
		return WrongAnswer, nil
	}

	if formatMismatch {
		return FormatMismatch, nil
	}
	return ExactMatch, nil
}

// readLine returns the next line including its terminator. ok is false once
// the stream is exhausted; a final line without a newline is still returned.
func readLine(r *bufio.Reader) (line string, ok bool, err error) {
	line, err = r.ReadString('\n')
	if err == io.EOF {
		return line, line != "", nil
	}
	if err != nil {
		return "", false, err
	}
	return line, true, nil
}

// normalizeLine removes all whitespace and lowercases the remainder.
func normalizeLine(line string) string {
	return strings.ToLower(strings.Join(strings.Fields(line), ""))
}
