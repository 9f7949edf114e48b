// Package chat models chat messages and draws them as message bubbles.
package chat

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/dshills/chatterm/internal/renderer/glyph"
)

// ServerName is the username carried by server notices.
const ServerName = "server"

// Kind distinguishes user messages from server notices.
type Kind uint8

const (
	KindUser Kind = iota
	KindServer
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindServer {
		return "server"
	}
	return "user"
}

// Message is one entry of a conversation.
type Message struct {
	ID       uuid.UUID
	Kind     Kind
	Username string
	Body     string
	Time     time.Time
	IsSelf   bool

	// Presence is set on notices announcing a user joining or leaving.
	Presence *Presence
}

// Presence records a user coming online or going offline.
type Presence struct {
	User   string
	Online bool
}

var tabs = glyph.NewTabExpander(4, nil)

// normalizeBody composes the body to NFC and expands tabs, so that every
// scalar in a bubble has a fixed display width.
func normalizeBody(body string) string {
	return tabs.ExpandTabs(norm.NFC.String(body))
}

// NewUserMessage creates a message from username. self marks messages
// sent by the local user.
func NewUserMessage(username, body string, self bool, at time.Time) Message {
	return Message{
		ID:       uuid.New(),
		Kind:     KindUser,
		Username: username,
		Body:     normalizeBody(body),
		Time:     at,
		IsSelf:   self,
	}
}

// NewServerMessage creates a server notice.
func NewServerMessage(body string, at time.Time) Message {
	return Message{
		ID:       uuid.New(),
		Kind:     KindServer,
		Username: ServerName,
		Body:     normalizeBody(body),
		Time:     at,
	}
}

// UserOnline returns the notice broadcast when a user joins.
func UserOnline(username string, at time.Time) Message {
	m := NewServerMessage(fmt.Sprintf("`%s` is online", username), at)
	m.Presence = &Presence{User: username, Online: true}
	return m
}

// UserOffline returns the notice broadcast when a user leaves.
func UserOffline(username string, at time.Time) Message {
	m := NewServerMessage(fmt.Sprintf("`%s` is offline", username), at)
	m.Presence = &Presence{User: username}
	return m
}

// OnlineUsers returns the users present after msgs, in the order they
// arrived. A user arrives with their first message or an online notice
// and leaves with an offline notice.
func OnlineUsers(msgs []Message) []string {
	var users []string
	for _, m := range msgs {
		switch {
		case m.Presence != nil:
			users = slices.DeleteFunc(users, func(u string) bool { return u == m.Presence.User })
			if m.Presence.Online {
				users = append(users, m.Presence.User)
			}
		case m.Kind == KindUser && !slices.Contains(users, m.Username):
			users = append(users, m.Username)
		}
	}
	return users
}

// String formats the message as a log line.
func (m Message) String() string {
	return m.Time.Format("2006-01-02 15:04:05") + " | " + m.Short()
}

// Short formats the message without its timestamp.
func (m Message) Short() string {
	return "[" + m.Username + "]: " + m.Body
}
