// Package parser provides access log reading and parsing functionality.
package parser

import (
	"strconv"
	"strings"
	"time"
)

// Line is a raw log line together with where it came from.
type Line struct {
	// Text is the line content without the trailing newline.
	Text string

	// Source is the name of the file or URL this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}

// LogRecord is a parsed access log line.
type LogRecord struct {
	RemoteAddr string
	RemoteUser string

	// Timestamp is the wall-clock time of the log line. The numeric offset
	// of the source line is dropped; the value is always in time.UTC.
	Timestamp time.Time

	// Request is the full request line: method, path and protocol.
	Request       string
	Status        int
	BodyBytesSent int64
	Agent         string
}

// Field names understood by FieldValue.
const (
	FieldAgent  = "agent"
	FieldMethod = "method"
	FieldStatus = "status"
)

// FieldValue projects a record onto a named field. The name is matched
// case-insensitively; unknown names report ok == false.
func (r *LogRecord) FieldValue(name string) (value string, ok bool) {
	switch strings.ToLower(name) {
	case FieldAgent:
		return r.Agent, true
	case FieldMethod:
		method, _, _ := strings.Cut(r.Request, " ")
		return method, true
	case FieldStatus:
		return strconv.Itoa(r.Status), true
	default:
		return "", false
	}
}
