package textutil

import (
	"testing"

	"github.com/mattn/go-runewidth"
)

func narrowEastAsian(t *testing.T) {
	t.Helper()
	runewidth.EastAsianWidth = false
	runewidth.DefaultCondition = runewidth.NewCondition()
}

func TestVisibleWidth(t *testing.T) {
	narrowEastAsian(t)
	cases := []struct {
		s    string
		want int
	}{
		{"", 0},
		{"var x;", 6},
		{"あいう", 6},
		{"é", 1},
	}
	for _, tc := range cases {
		if got := VisibleWidth(tc.s); got != tc.want {
			t.Errorf("VisibleWidth(%q) = %d, want %d", tc.s, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	narrowEastAsian(t)
	cases := []struct {
		s    string
		w    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"a longer line", 6, "a lon…"},
		{"あいう", 4, "あ…"},
		{"anything", 0, ""},
	}
	for _, tc := range cases {
		got := Truncate(tc.s, tc.w)
		if got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.s, tc.w, got, tc.want)
		}
		if VisibleWidth(got) > tc.w {
			t.Errorf("Truncate(%q, %d) is %d columns wide", tc.s, tc.w, VisibleWidth(got))
		}
	}
}

func TestPadRight(t *testing.T) {
	narrowEastAsian(t)
	if got := PadRight("あ", 4); got != "あ  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("toolong", 3); got != "toolong" {
		t.Errorf("PadRight must not cut, got %q", got)
	}
}

func TestSanitize(t *testing.T) {
	if got := Sanitize("a\tb\x1b[31m"); got != "a b�[31m" {
		t.Errorf("Sanitize = %q", got)
	}
}
