package analyzer

import "regexp"

// commentBody matches text that never contains a closing marker: a run of
// stars must be followed by something other than '*' or '/'.
const commentBody = `(?:[^*]|\*+[^*/])*`

// closedComment is one complete /* ... */ pair, together with any slashes
// directly in front of its opening.
const closedComment = `/+\*` + commentBody + `\**\*/`

// openPrefix is the text in front of an unterminated opening marker: plain
// characters, slashes not starting an opening, and complete comments. It can
// never stop inside a comment, so the opening it precedes is a real one.
const openPrefix = `(?:[^/]|/+[^*/]|` + closedComment + `)*/*`

// space is any Unicode white space, not only ASCII.
const space = `[\s\p{Z}\x{85}]`

type patternSet struct {
	// fullLineComment: the whole line is one /* ... */ pair.
	fullLineComment *regexp.Regexp
	// startComment: an opening marker with no close after it. A line matching
	// fullLineComment always has a close after its only real opening, so the
	// two never match the same line.
	startComment *regexp.Regexp
	// endComment: the first close marker; captures the text before it.
	endComment *regexp.Regexp
	whiteSpace *regexp.Regexp
}

var patterns = patternSet{
	fullLineComment: regexp.MustCompile(`^` + space + `*/\*(?P<comment>` + commentBody + `?)\**\*/` + space + `*$`),
	startComment:    regexp.MustCompile(`^` + openPrefix + `/\*(?P<comment>` + commentBody + `\**)$`),
	endComment:      regexp.MustCompile(`^(?P<comment>.*?)\*/`),
	whiteSpace:      regexp.MustCompile(`^` + space + `*$`),
}
