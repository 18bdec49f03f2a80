package usecase

import (
	"strings"

	"scriptscan/internal/adapter/source"
	"scriptscan/internal/domain"
)

// ScanSource reads src to the end and summarizes it. Header holds the
// comment text seen before the first code line; Directives holds the targets
// of header lines that start with the directive keyword. The source is
// closed on return.
func ScanSource(src *source.Source, directive string) domain.Report {
	defer src.Close()

	report := domain.Report{
		Path:   src.ID(),
		Digest: src.Digest(),
	}

	for {
		codeBefore := src.AnyCodeYet()
		line, ok := src.NextLine()
		if !ok {
			break
		}
		report.Lines++

		switch {
		case line.Kind == domain.LineBlank:
			report.BlankLines++
		case line.Kind == domain.LineCode:
			report.CodeLines++
			if report.FirstCodeLine == 0 {
				report.FirstCodeLine = line.Number
			}
		default:
			report.CommentLines++
		}

		if codeBefore || !line.Kind.IsComment() {
			continue
		}
		text := headerText(line.Text)
		if text == "" {
			continue
		}
		report.Header = append(report.Header, text)
		if target, ok := parseDirective(text, directive); ok {
			report.Directives = append(report.Directives, target)
		}
	}

	report.Unterminated = src.Unterminated()
	return report
}

// headerText strips the decoration block comments commonly carry on their
// inner lines ("  * text").
func headerText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimLeft(text, "*")
	return strings.TrimSpace(text)
}

// parseDirective recognizes "<keyword> <target>" where target may be quoted
// and followed by a semicolon.
func parseDirective(text, keyword string) (string, bool) {
	if keyword == "" {
		return "", false
	}
	rest, ok := strings.CutPrefix(text, keyword)
	if !ok || rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
		return "", false
	}
	target := strings.TrimSpace(rest)
	target = strings.TrimSuffix(target, ";")
	target = strings.TrimSpace(target)
	if len(target) >= 2 {
		if q := target[0]; (q == '"' || q == '\'') && target[len(target)-1] == q {
			target = target[1 : len(target)-1]
		}
	}
	if target == "" {
		return "", false
	}
	return target, true
}
