package analyzer

import (
	"strings"

	"scriptscan/internal/domain"
)

// Result is the outcome of classifying one line.
type Result struct {
	// Text is the comment content for comment lines and the line itself otherwise.
	Text string
	Kind domain.LineKind
	// InComment is true when all of Text is comment content.
	InComment bool
	// SawComment is true when the line carried any comment content.
	SawComment bool
	State      domain.ScanState
}

// IsCode reports whether the line counted toward AnyCodeYet.
func (r Result) IsCode() bool {
	return r.Kind == domain.LineCode
}

// Classify classifies line given the state left by the previous line and
// returns the state for the next one.
//
// Inside a multiline comment only the close marker is looked for. Otherwise
// a full-line comment wins over an unterminated opening, and a line matching
// neither is code unless it is blank. Text after a close marker on the same
// line is never treated as code.
func Classify(line string, st domain.ScanState) Result {
	if st.InMultilineComment {
		if m := patterns.endComment.FindStringSubmatch(line); m != nil {
			st.InMultilineComment = false
			return Result{
				Text:       m[1],
				Kind:       domain.LineCommentEnd,
				SawComment: true,
				State:      st,
			}
		}
		return Result{
			Text:       line,
			Kind:       domain.LineCommentContinuation,
			InComment:  true,
			SawComment: true,
			State:      st,
		}
	}

	if m := patterns.fullLineComment.FindStringSubmatch(line); m != nil {
		return Result{
			Text:       strings.TrimSpace(m[1]),
			Kind:       domain.LineFullComment,
			InComment:  true,
			SawComment: true,
			State:      st,
		}
	}

	if m := patterns.startComment.FindStringSubmatch(line); m != nil {
		st.InMultilineComment = true
		return Result{
			Text:       strings.TrimSpace(m[1]),
			Kind:       domain.LineCommentStart,
			InComment:  true,
			SawComment: true,
			State:      st,
		}
	}

	if patterns.whiteSpace.MatchString(line) {
		return Result{Text: line, Kind: domain.LineBlank, State: st}
	}

	st.AnyCodeYet = true
	return Result{Text: line, Kind: domain.LineCode, State: st}
}

// ClassifyAll classifies lines in order starting from st.
func ClassifyAll(lines []string, st domain.ScanState) ([]Result, domain.ScanState) {
	results := make([]Result, 0, len(lines))
	for _, line := range lines {
		r := Classify(line, st)
		st = r.State
		results = append(results, r)
	}
	return results, st
}
