// Package widget provides the text and edit widgets drawn by the chat
// client. Widgets own their markup and cursor state; layout goes through a
// shared layout.Cache and drawing produces canvas.Canvas values.
package widget
