package source

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"

	"scriptscan/internal/adapter/analyzer"
	"scriptscan/internal/domain"
	"scriptscan/internal/port"
)

// ErrNotFound is returned by Open when an identifier does not resolve.
var ErrNotFound = port.ErrNotFound

const byteOrderMark = "\ufeff"

// Source is a single-owner, forward-only scanning session over one script.
// It is not safe for concurrent use.
type Source struct {
	id       string
	physical bool
	data     string

	scanner *bufio.Scanner
	state   domain.ScanState
	last    analyzer.Result
	line    int
	done    bool
}

// Open resolves id through r and returns a source over its content.
//
// The identifier is normalized first. When it does not look like a file or
// does not resolve, the returned Source is non-physical: it has no content
// and NextLine reports end of stream immediately. The error wraps
// ErrNotFound in that case; a nil Source is never returned.
func Open(r port.ContentResolver, id string) (*Source, error) {
	s := &Source{id: NormalizeIdentifier(id), done: true}

	if !LooksLikeFileIdentifier(s.id) {
		return s, fmt.Errorf("%q is not a file identifier: %w", s.id, ErrNotFound)
	}
	text, err := r.Resolve(s.id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return s, err
		}
		return s, fmt.Errorf("failed to resolve %s: %w", s.id, err)
	}
	s.load(text)
	return s, nil
}

// New returns a physical source over text that is already in memory.
func New(id, text string) *Source {
	s := &Source{id: NormalizeIdentifier(id)}
	s.load(text)
	return s
}

// load drops a leading byte order mark and prepares the line reader. Lines
// are not length-limited: the whole text is already in memory.
func (s *Source) load(text string) {
	text = strings.TrimPrefix(text, byteOrderMark)
	s.physical = true
	s.data = text
	s.done = false

	size := 64 * 1024
	if len(text)+1 < size {
		size = len(text) + 1
	}
	s.scanner = bufio.NewScanner(strings.NewReader(text))
	s.scanner.Buffer(make([]byte, 0, size), len(text)+1)
	s.scanner.Split(scanLines)
}

// scanLines splits on "\n", "\r\n" and a lone "\r". A final line without a
// terminator is returned; a trailing terminator does not add an empty line.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell "\r" from "\r\n"
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// NextLine reads and classifies the next line. It returns false once the
// text is exhausted, the source was closed, or the source is non-physical.
func (s *Source) NextLine() (domain.ScriptLine, bool) {
	if s.done {
		return domain.ScriptLine{}, false
	}
	if !s.scanner.Scan() {
		s.release()
		return domain.ScriptLine{}, false
	}
	s.line++
	r := analyzer.Classify(s.scanner.Text(), s.state)
	s.state = r.State
	s.last = r
	return domain.ScriptLine{
		Number:     s.line,
		Text:       r.Text,
		Kind:       r.Kind,
		InComment:  r.InComment,
		SawComment: r.SawComment,
	}, true
}

// Close releases the line reader. It is safe to call more than once and
// after the text has been exhausted.
func (s *Source) Close() error {
	s.release()
	return nil
}

func (s *Source) release() {
	s.done = true
	s.scanner = nil
}

func (s *Source) ID() string {
	return s.id
}

// IsPhysical reports whether the identifier resolved to content.
func (s *Source) IsPhysical() bool {
	return s.physical
}

// Data returns the full text, without a leading byte order mark.
func (s *Source) Data() string {
	return s.data
}

// Digest hashes the text returned by Data. It is recomputed on every call.
func (s *Source) Digest() string {
	return Digest(s.data)
}

// InComment reports whether the last returned line was entirely comment.
func (s *Source) InComment() bool {
	return s.last.InComment
}

// AnyCodeYet reports whether a non-blank, non-comment line has been read.
func (s *Source) AnyCodeYet() bool {
	return s.state.AnyCodeYet
}

// InMultilineComment reports whether the last line left a comment open.
func (s *Source) InMultilineComment() bool {
	return s.state.InMultilineComment
}

// Unterminated reports whether the text ended inside a multiline comment.
// It is only meaningful once NextLine has returned false.
func (s *Source) Unterminated() bool {
	return s.done && s.state.InMultilineComment
}

func (s *Source) State() domain.ScanState {
	return s.state
}

// LineNumber is the 1-based number of the last returned line.
func (s *Source) LineNumber() int {
	return s.line
}
