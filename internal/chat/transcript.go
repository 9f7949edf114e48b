package chat

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// SelfPrefix marks a transcript line written by the local user.
const SelfPrefix = "me>"

// ParseError reports a malformed transcript line.
type ParseError struct {
	Line int
	Text string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("transcript line %d: unrecognized %q", e.Line, e.Text)
}

var userLine = regexp.MustCompile(`^(?:(\d{1,2}):(\d{2})\s+)?([^\s>]+)>\s?(.*)$`)

// ParseTranscript reads a conversation. Recognized lines are:
//
//	HH:MM user> body   message from user (the time is optional)
//	me> body           message from the local user
//	* notice           server notice
//	+ user             user comes online
//	- user             user goes offline
//	  more text        continues the previous message on a new line
//
// Blank lines and lines starting with '#' are skipped. Times are placed on
// day; messages without one inherit the previous message time. A message
// from self is marked IsSelf.
func ParseTranscript(r io.Reader, self string, day time.Time) ([]Message, error) {
	var (
		msgs []Message
		at   = day
	)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "" || strings.HasPrefix(trimmed, "#"):
			continue
		case line[0] == ' ' || line[0] == '\t':
			if len(msgs) == 0 {
				return nil, &ParseError{Line: lineNo, Text: line}
			}
			last := &msgs[len(msgs)-1]
			last.Body = normalizeBody(last.Body + "\n" + trimmed)
		case strings.HasPrefix(line, "*"):
			msgs = append(msgs, NewServerMessage(strings.TrimSpace(line[1:]), at))
		case line[0] == '+' || line[0] == '-':
			name := strings.TrimSpace(line[1:])
			if name == "" || strings.ContainsAny(name, " \t>") {
				return nil, &ParseError{Line: lineNo, Text: line}
			}
			if line[0] == '+' {
				msgs = append(msgs, UserOnline(name, at))
			} else {
				msgs = append(msgs, UserOffline(name, at))
			}
		case strings.HasPrefix(line, SelfPrefix):
			body := strings.TrimPrefix(line[len(SelfPrefix):], " ")
			msgs = append(msgs, NewUserMessage(self, body, true, at))
		default:
			m := userLine.FindStringSubmatch(line)
			if m == nil {
				return nil, &ParseError{Line: lineNo, Text: line}
			}
			if m[1] != "" {
				h, _ := strconv.Atoi(m[1])
				mm, _ := strconv.Atoi(m[2])
				if h > 23 || mm > 59 {
					return nil, &ParseError{Line: lineNo, Text: line}
				}
				at = time.Date(day.Year(), day.Month(), day.Day(), h, mm, 0, 0, day.Location())
			}
			msgs = append(msgs, NewUserMessage(m[3], m[4], m[3] == self, at))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return msgs, nil
}
