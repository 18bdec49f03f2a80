package domain

import "time"

// LineKind classifies a single source line.
type LineKind int

const (
	LineBlank LineKind = iota
	LineCode
	LineFullComment
	LineCommentStart
	LineCommentContinuation
	LineCommentEnd
)

var lineKindNames = [...]string{
	LineBlank:               "blank",
	LineCode:                "code",
	LineFullComment:         "comment",
	LineCommentStart:        "comment-start",
	LineCommentContinuation: "comment-cont",
	LineCommentEnd:          "comment-end",
}

func (k LineKind) String() string {
	if k < 0 || int(k) >= len(lineKindNames) {
		return "unknown"
	}
	return lineKindNames[k]
}

// IsComment reports whether the line carried any comment content.
func (k LineKind) IsComment() bool {
	return k >= LineFullComment
}

// ScanState is the state carried from one line to the next.
type ScanState struct {
	InMultilineComment bool
	AnyCodeYet         bool
}

type ScriptLine struct {
	Number     int
	Text       string
	Kind       LineKind
	InComment  bool
	SawComment bool
}

type Source struct {
	Path    string
	Digest  string
	ModTime time.Time
}

// Report summarizes one fully scanned source.
type Report struct {
	Path          string   `json:"path" yaml:"path"`
	Digest        string   `json:"digest" yaml:"digest"`
	Lines         int      `json:"lines" yaml:"lines"`
	CodeLines     int      `json:"code_lines" yaml:"code_lines"`
	CommentLines  int      `json:"comment_lines" yaml:"comment_lines"`
	BlankLines    int      `json:"blank_lines" yaml:"blank_lines"`
	FirstCodeLine int      `json:"first_code_line" yaml:"first_code_line"`
	Header        []string `json:"header,omitempty" yaml:"header,omitempty"`
	Directives    []string `json:"directives,omitempty" yaml:"directives,omitempty"`
	Unterminated  bool     `json:"unterminated,omitempty" yaml:"unterminated,omitempty"`
}

type Stats struct {
	TotalSources int
	TotalLines   int
	Unterminated int
}
