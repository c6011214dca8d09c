package features

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	gomail "github.com/emersion/go-message/mail"

	"event-dataset-processor/internal/models"
)

const numericDatePattern = `\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}`

var senderDomainRe = regexp.MustCompile(`@([^>]+)>`)

// Extractor derives FeatureRows from Rows. It holds only compiled,
// read-only patterns and is safe for concurrent use.
type Extractor struct {
	keywords    []string
	datePattern *regexp.Regexp
}

// NewExtractor compiles the vocabulary into matchers
func NewExtractor(vocab Vocabulary) (*Extractor, error) {
	keywords := make([]string, 0, len(vocab.TimeKeywords))
	for _, kw := range vocab.TimeKeywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return nil, fmt.Errorf("time keyword list contains a blank entry")
		}
		keywords = append(keywords, kw)
	}

	pattern := numericDatePattern
	if len(vocab.MonthNames) > 0 {
		months := make([]string, 0, len(vocab.MonthNames))
		for _, m := range vocab.MonthNames {
			m = strings.TrimSpace(m)
			if m == "" {
				return nil, fmt.Errorf("month name list contains a blank entry")
			}
			months = append(months, regexp.QuoteMeta(m))
		}
		pattern = fmt.Sprintf(`%s|\d{1,2}[\s\p{Zs}]+(?:%s)`, numericDatePattern, strings.Join(months, "|"))
	}

	re, err := regexp.Compile(`(?i)(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("failed to compile date pattern: %w", err)
	}

	return &Extractor{keywords: keywords, datePattern: re}, nil
}

// HasTimeKeywords reports whether body contains any time keyword as a whole
// word, ignoring case
func (e *Extractor) HasTimeKeywords(body string) bool {
	text := strings.ToLower(body)
	for _, kw := range e.keywords {
		if containsWord(text, kw) {
			return true
		}
	}
	return false
}

// HasDatePattern reports whether body contains a numeric date or a
// day number followed by a month name
func (e *Extractor) HasDatePattern(body string) bool {
	return e.datePattern.MatchString(body)
}

// Extract maps every row to its FeatureRow. Rows are independent.
func (e *Extractor) Extract(rows []models.Row) []models.FeatureRow {
	out := make([]models.FeatureRow, len(rows))
	for i, row := range rows {
		out[i] = e.ExtractRow(row)
	}
	return out
}

// ExtractRow derives the features of a single row
func (e *Extractor) ExtractRow(row models.Row) models.FeatureRow {
	domain, _ := SenderDomain(row.EmailSender)
	return models.FeatureRow{
		EmailBodyLength:    utf8.RuneCountInString(row.EmailBody),
		EmailSubjectLength: utf8.RuneCountInString(row.EmailSubject),
		HasTimeKeywords:    e.HasTimeKeywords(row.EmailBody),
		HasDatePattern:     e.HasDatePattern(row.EmailBody),
		Action:             row.Action,
		Label:              models.LabelFor(row.Action),
		SenderDomain:       domain,
	}
}

// SenderDomain returns the text between "@" and the closing ">" of a
// "Name <user@domain>" sender
func SenderDomain(sender string) (string, bool) {
	m := senderDomainRe.FindStringSubmatch(sender)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// SenderAddress returns the bare address of an RFC 5322 sender value
func SenderAddress(sender string) (string, bool) {
	addr, err := gomail.ParseAddress(sender)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

// containsWord reports whether word occurs in text on word boundaries.
// A boundary exists where the word/non-word class changes, as with \b,
// but using Unicode letters so that Hebrew keywords are handled.
func containsWord(text, word string) bool {
	for start := 0; start+len(word) <= len(text); {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		if boundaryAt(text, i, word) {
			return true
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		start = i + size
	}
	return false
}

func boundaryAt(text string, i int, word string) bool {
	first, _ := utf8.DecodeRuneInString(word)
	last, _ := utf8.DecodeLastRuneInString(word)

	before := false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:i])
		before = isWordRune(r)
	}
	after := false
	if end := i + len(word); end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		after = isWordRune(r)
	}

	return before != isWordRune(first) && isWordRune(last) != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
