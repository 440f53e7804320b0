package playlist

import (
	"regexp"
	"strconv"
	"strings"
)

const extInfMarker = "#EXTINF:"

// UnknownDuration is the conventional #EXTINF duration for live streams and
// entries whose length is not known.
const UnknownDuration = -1

var durationPattern = regexp.MustCompile(`^[-+]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)$`)

// ExtInf is the #EXTINF metadata directive:
//
//	#EXTINF:<duration> [<key>=<value> ...],<title>
//
// Attribute values may be double quoted, in which case they can contain
// spaces and commas. The title runs from the first comma outside a quoted
// value to the end of the line and may itself contain commas.
type ExtInf struct {
	Duration   float64     `json:"duration"`
	Title      string      `json:"title"`
	Attributes *Attributes `json:"attributes"`
}

// ExtInfTag is the definition of the #EXTINF directive.
var ExtInfTag = TagDef{
	Name:  "EXTINF",
	Match: PrefixMatcher(extInfMarker),
	Parse: func(line string) (Tag, error) { return ParseExtInf(line) },
}

// ParseExtInf parses a complete #EXTINF line, marker included.
func ParseExtInf(line string) (*ExtInf, error) {
	if !hasPrefixFold(line, extInfMarker) {
		return nil, formatErrorf("EXTINF", line, "missing %s marker", extInfMarker)
	}
	payload := line[len(extInfMarker):]

	head, title, ok := splitTitle(payload)
	if !ok {
		return nil, formatErrorf("EXTINF", line, "no comma separating the title; expected #EXTINF:<duration> [attributes],<title>")
	}
	head = strings.TrimSpace(head)

	durationStr, span := head, ""
	if i := strings.IndexFunc(head, func(r rune) bool { return r < 0x80 && isSpace(byte(r)) }); i >= 0 {
		durationStr, span = head[:i], head[i+1:]
	}
	if !durationPattern.MatchString(durationStr) {
		return nil, formatErrorf("EXTINF", line, "invalid duration %q", durationStr)
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return nil, formatErrorf("EXTINF", line, "invalid duration %q: %v", durationStr, err)
	}

	attrs, err := parseAttributes(span)
	if err != nil {
		return nil, formatErrorf("EXTINF", line, "%v", err)
	}

	return &ExtInf{
		Duration:   duration,
		Title:      strings.TrimSpace(title),
		Attributes: attrs,
	}, nil
}

// Name implements Tag.
func (t *ExtInf) Name() string { return "EXTINF" }

func (t *ExtInf) String() string {
	var b strings.Builder
	b.WriteString(extInfMarker)
	b.WriteString(strconv.FormatFloat(t.Duration, 'f', -1, 64))
	if attrs := t.Attributes.String(); attrs != "" {
		b.WriteByte(' ')
		b.WriteString(attrs)
	}
	b.WriteByte(',')
	b.WriteString(t.Title)
	return b.String()
}

// Attr returns the value of attribute key, or "" when it is absent.
func (t *ExtInf) Attr(key string) string {
	return t.Attributes.Value(key)
}

// IsLive reports whether the duration is the unknown-duration sentinel or
// any other negative value.
func (t *ExtInf) IsLive() bool {
	return t.Duration < 0
}
