// Package draft finds <draft platform="..." title="..."> blocks in assistant text.
package draft

import (
	"regexp"
	"strings"
)

// Draft is one well-formed block. Content is trimmed.
type Draft struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Match is a Draft plus its byte span in the scanned text.
type Match struct {
	Draft
	Start int
	End   int
}

// Both attributes are required and must appear in this order. Anything else
// stays plain text.
var blockPattern = regexp.MustCompile(`<draft\s+platform="([^"]+)"\s+title="([^"]+)">\s*([\s\S]*?)\s*</draft>`)

type Scanner struct {
	pattern *regexp.Regexp
}

func NewScanner() *Scanner {
	return &Scanner{pattern: blockPattern}
}

// FindAll returns every non-overlapping block in order of appearance.
func (s *Scanner) FindAll(text string) []Match {
	indexes := s.pattern.FindAllStringSubmatchIndex(text, -1)
	matches := make([]Match, 0, len(indexes))
	for _, idx := range indexes {
		matches = append(matches, Match{
			Draft: Draft{
				Platform: text[idx[2]:idx[3]],
				Title:    text[idx[4]:idx[5]],
				Content:  strings.TrimSpace(text[idx[6]:idx[7]]),
			},
			Start: idx[0],
			End:   idx[1],
		})
	}
	return matches
}

func (s *Scanner) ExtractAll(text string) []Draft {
	matches := s.FindAll(text)
	drafts := make([]Draft, len(matches))
	for i, m := range matches {
		drafts[i] = m.Draft
	}
	return drafts
}

// ExtractLast returns the final block, which is the authoritative revision.
func (s *Scanner) ExtractLast(text string) *Draft {
	matches := s.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	last := matches[len(matches)-1].Draft
	return &last
}

// Strip removes every block and trims the result. Removal repeats until no
// block is left so that Strip(Strip(x)) == Strip(x) even when a removal
// splices a new block together. The spliced block is removed as well.
func (s *Scanner) Strip(text string) string {
	for s.pattern.MatchString(text) {
		text = s.pattern.ReplaceAllLiteralString(text, "")
	}
	return strings.TrimSpace(text)
}

var defaultScanner = NewScanner()

func ExtractAll(text string) []Draft { return defaultScanner.ExtractAll(text) }

func ExtractLast(text string) *Draft { return defaultScanner.ExtractLast(text) }

func Strip(text string) string { return defaultScanner.Strip(text) }
