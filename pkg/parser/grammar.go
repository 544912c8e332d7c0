package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/ccollicutt/logreport/pkg/apperrors"
	"github.com/ccollicutt/logreport/pkg/config"
)

// Capture group positions in the access log pattern.
const (
	groupRemoteAddr = iota + 1
	groupRemoteUser
	groupTimestamp
	groupRequest
	groupStatus
	groupBodyBytes
	groupAgent
)

// Grammar matches raw access log lines and extracts LogRecords.
type Grammar struct {
	pattern    *regexp.Regexp
	timeLayout string
	dayLayout  string
}

// NewGrammar creates a grammar from a pattern with seven capture groups and
// the Go layouts of the timestamp group and of the per-day bucket key.
func NewGrammar(pattern *regexp.Regexp, timeLayout, dayLayout string) (*Grammar, error) {
	if pattern.NumSubexp() != config.GrammarGroups {
		return nil, fmt.Errorf("pattern must have %d capture groups, got %d", config.GrammarGroups, pattern.NumSubexp())
	}
	return &Grammar{
		pattern:    pattern,
		timeLayout: timeLayout,
		dayLayout:  dayLayout,
	}, nil
}

// GrammarFromConfig builds the grammar described by a validated configuration.
func GrammarFromConfig(cfg *config.GrammarConfig) (*Grammar, error) {
	re := cfg.CompiledPattern()
	if re == nil {
		var err error
		if re, err = regexp.Compile(cfg.Pattern); err != nil {
			return nil, fmt.Errorf("compiling grammar pattern: %w", err)
		}
	}
	return NewGrammar(re, cfg.TimeLayout, cfg.DayLayout)
}

// DefaultGrammar returns the NGINX access log grammar.
func DefaultGrammar() *Grammar {
	return &Grammar{
		pattern:    regexp.MustCompile(config.DefaultLogPattern),
		timeLayout: config.DefaultTimeLayout,
		dayLayout:  config.DefaultDayLayout,
	}
}

// Parse matches a line against the grammar. A line that does not match
// returns (nil, nil). A line that matches but carries an unparseable date
// or number returns a parse-failure error.
func (g *Grammar) Parse(line string) (*LogRecord, error) {
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return nil, nil
	}

	ts, err := g.parseTimestamp(m[groupTimestamp])
	if err != nil {
		return nil, apperrors.ParseFailure("timestamp", m[groupTimestamp], err)
	}

	status, err := strconv.Atoi(m[groupStatus])
	if err != nil {
		return nil, apperrors.ParseFailure("status", m[groupStatus], err)
	}

	size, err := strconv.ParseInt(m[groupBodyBytes], 10, 64)
	if err != nil {
		return nil, apperrors.ParseFailure("body_bytes_sent", m[groupBodyBytes], err)
	}

	return &LogRecord{
		RemoteAddr:    m[groupRemoteAddr],
		RemoteUser:    m[groupRemoteUser],
		Timestamp:     Civil(ts),
		Request:       m[groupRequest],
		Status:        status,
		BodyBytesSent: size,
		Agent:         m[groupAgent],
	}, nil
}

// Matches reports whether a line matches the grammar, without parsing fields.
func (g *Grammar) Matches(line string) bool {
	return g.pattern.MatchString(line)
}

// Day renders the per-day bucket key of a timestamp, e.g. 17/May/2015.
func (g *Grammar) Day(t time.Time) string {
	return t.Format(g.dayLayout)
}

// parseTimestamp keeps the offset of the source line.
func (g *Grammar) parseTimestamp(value string) (time.Time, error) {
	return time.Parse(g.timeLayout, value)
}
