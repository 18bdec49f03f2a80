package source

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"scriptscan/internal/adapter/memstore"
	"scriptscan/internal/domain"
)

func drain(s *Source) []domain.ScriptLine {
	var lines []domain.ScriptLine
	for {
		line, ok := s.NextLine()
		if !ok {
			return lines
		}
		lines = append(lines, line)
	}
}

func TestOpen_ResolvesAndNormalizes(t *testing.T) {
	r := memstore.NewMemoryResolver(map[string]string{
		"script.js": "/* header */\nvar x = 1;\n",
	})

	s, err := Open(r, "script.js?v=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if !s.IsPhysical() {
		t.Fatal("expected a physical source")
	}
	if s.ID() != "script.js" {
		t.Errorf("expected normalized id 'script.js', got %q", s.ID())
	}

	lines := drain(s)
	want := []domain.ScriptLine{
		{Number: 1, Text: "header", Kind: domain.LineFullComment, InComment: true, SawComment: true},
		{Number: 2, Text: "var x = 1;", Kind: domain.LineCode},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
	if !s.AnyCodeYet() {
		t.Error("expected AnyCodeYet after reading code")
	}
}

func TestOpen_NotFound(t *testing.T) {
	r := memstore.NewMemoryResolver(nil)

	for _, id := range []string{"missing.js", "folder/name"} {
		s, err := Open(r, id)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", id, err)
		}
		if s == nil {
			t.Fatalf("%s: expected a non-physical source, got nil", id)
		}
		if s.IsPhysical() {
			t.Errorf("%s: expected non-physical source", id)
		}
		if _, ok := s.NextLine(); ok {
			t.Errorf("%s: expected end of stream from a non-physical source", id)
		}
		if s.Digest() != Digest("") {
			t.Errorf("%s: expected digest of empty text", id)
		}
		if err := s.Close(); err != nil {
			t.Errorf("%s: close failed: %v", id, err)
		}
	}
}

func TestSource_MultilineComment(t *testing.T) {
	s := New("a.js", "/* open\nclose */ code\n")
	defer s.Close()

	line, ok := s.NextLine()
	if !ok || line.Text != "open" || !s.InMultilineComment() || !s.InComment() {
		t.Fatalf("unexpected first line %+v (in multiline=%v)", line, s.InMultilineComment())
	}

	line, ok = s.NextLine()
	if !ok || line.Text != "close " {
		t.Fatalf("unexpected second line %+v", line)
	}
	if s.InMultilineComment() {
		t.Error("expected the comment to be closed")
	}
	if s.InComment() {
		t.Error("closing line must not report InComment")
	}
	if s.AnyCodeYet() {
		t.Error("expected no code after comment-only lines")
	}
}

func TestSource_BlankThenCode(t *testing.T) {
	s := New("a.js", "\n   \nx=1")
	defer s.Close()

	s.NextLine()
	s.NextLine()
	if s.AnyCodeYet() {
		t.Fatal("blank lines must not count as code")
	}
	s.NextLine()
	if !s.AnyCodeYet() {
		t.Fatal("expected AnyCodeYet after 'x=1'")
	}
	if s.LineNumber() != 3 {
		t.Errorf("expected line 3, got %d", s.LineNumber())
	}
}

func TestSource_Unterminated(t *testing.T) {
	s := New("a.js", "/* never closes")
	defer s.Close()

	if _, ok := s.NextLine(); !ok {
		t.Fatal("expected one line")
	}
	if s.Unterminated() {
		t.Error("unterminated must not be reported before the end of the text")
	}
	if _, ok := s.NextLine(); ok {
		t.Fatal("expected end of stream")
	}
	if !s.Unterminated() || !s.InMultilineComment() {
		t.Error("expected unterminated comment at end of text")
	}
	if _, ok := s.NextLine(); ok {
		t.Error("expected end of stream to repeat")
	}
}

func TestSource_CloseMidStream(t *testing.T) {
	s := New("a.js", "a\nb\nc\n")
	if _, ok := s.NextLine(); !ok {
		t.Fatal("expected a line")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.NextLine(); ok {
		t.Error("expected end of stream after Close")
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestSource_CRLF(t *testing.T) {
	s := New("a.js", "/* a */\r\nvar b;\r\n")
	defer s.Close()

	lines := drain(s)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "a" || lines[1].Text != "var b;" {
		t.Errorf("unexpected lines: %+v", lines)
	}
}

func TestSource_LoneCarriageReturn(t *testing.T) {
	s := New("a.js", "/* a */\rvar x;\r")
	defer s.Close()

	lines := drain(s)
	want := []domain.ScriptLine{
		{Number: 1, Text: "a", Kind: domain.LineFullComment, InComment: true, SawComment: true},
		{Number: 2, Text: "var x;", Kind: domain.LineCode},
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_MixedLineEndings(t *testing.T) {
	s := New("a.js", "a\r\nb\rc\n\r\nd")
	defer s.Close()

	var got []string
	for _, line := range drain(s) {
		got = append(got, line.Text)
	}
	want := []string{"a", "b", "c", "", "d"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestSource_VeryLongLine(t *testing.T) {
	long := strings.Repeat("x", 2<<20)
	s := New("bundle.min.js", "/* header */\n"+long+"\n/* tail */\n")
	defer s.Close()

	lines := drain(s)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if len(lines[1].Text) != len(long) || lines[1].Kind != domain.LineCode {
		t.Errorf("expected the long line read in full as code, got %d bytes (%s)", len(lines[1].Text), lines[1].Kind)
	}
	if !s.AnyCodeYet() {
		t.Error("expected AnyCodeYet after the long line")
	}
	if lines[2].Text != "tail" {
		t.Errorf("expected the line after the long one, got %q", lines[2].Text)
	}
}

func TestSource_ByteOrderMark(t *testing.T) {
	r := memstore.NewMemoryResolver(map[string]string{
		"bom.js": "\ufeff/* using \"lib.js\" */\nvar x;\n",
	})
	s, err := Open(r, "bom.js")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	line, _ := s.NextLine()
	if line.Kind != domain.LineFullComment || line.Text != `using "lib.js"` {
		t.Errorf("expected the first line to be a header comment, got %+v", line)
	}
	if s.AnyCodeYet() {
		t.Error("a byte order mark must not count as code")
	}
	if strings.HasPrefix(s.Data(), "\ufeff") {
		t.Error("expected the byte order mark to be dropped from Data")
	}
	if s.Digest() != Digest("/* using \"lib.js\" */\nvar x;\n") {
		t.Error("expected the digest to ignore the byte order mark")
	}
}

func TestDigest(t *testing.T) {
	a := New("a.js", "var a;")
	if a.Digest() != a.Digest() {
		t.Error("digest must be stable")
	}
	if len(a.Digest()) != 32 {
		t.Errorf("expected 32 hex digits, got %d", len(a.Digest()))
	}
	if a.Digest() != strings.ToLower(a.Digest()) {
		t.Error("digest must be lowercase")
	}
	if Digest("var a;") == Digest("var b;") {
		t.Error("different text must give different digests")
	}
	if Digest("") != "d41d8cd98f00b204e9800998ecf8427e" {
		t.Errorf("unexpected digest of empty text: %s", Digest(""))
	}
	if Digest("é") != "66ddcd97cfdeabb2f6fb8a999b4bc76f" {
		t.Errorf("expected the digest of the UTF-8 bytes, got %s", Digest("é"))
	}
	if Digest("é") == Digest("?") {
		t.Error("non-ASCII text must not hash like its ASCII replacement")
	}
	if New("x.js", "same").Digest() != New("y.js", "same").Digest() {
		t.Error("digest must depend only on the text")
	}
}

func TestIdentifiers(t *testing.T) {
	norm := map[string]string{
		"script.js?v=2":  "script.js",
		"script.js":      "script.js",
		"a/b.css?x?y":    "a/b.css",
		"?only":          "",
		"dir\\file.js?1": "dir\\file.js",
	}
	for in, want := range norm {
		if got := NormalizeIdentifier(in); got != want {
			t.Errorf("NormalizeIdentifier(%q) = %q, want %q", in, got, want)
		}
	}

	files := map[string]bool{
		"script.js":       true,
		"folder/name":     false,
		"noext":           false,
		".htaccess":       true,
		"dir/.env":        true,
		"a.b/c":           false,
		"a.b\\c":          false,
		"scripts\\app.js": true,
		"":                false,
	}
	for in, want := range files {
		if got := LooksLikeFileIdentifier(in); got != want {
			t.Errorf("LooksLikeFileIdentifier(%q) = %v, want %v", in, got, want)
		}
	}
}
