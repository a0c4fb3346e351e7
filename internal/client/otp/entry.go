// Package otp models the six-slot one-time-code input.
package otp

import "strings"

// Length is the number of digits in a one-time code.
const Length = 6

// Entry is the pure input state of a one-time code: six single-digit slots
// and the index of the focused slot. The zero value is an empty entry with
// focus on slot 0.
type Entry struct {
	slots [Length]rune
	focus int
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func clamp(i int) int {
	if i < 0 {
		return 0
	}
	if i >= Length {
		return Length - 1
	}
	return i
}

// Input writes r at the focused slot and advances focus. Non-digits are ignored.
func (e *Entry) Input(r rune) bool {
	if !isDigit(r) {
		return false
	}
	e.slots[e.focus] = r
	e.focus = clamp(e.focus + 1)
	return true
}

// Set writes a single digit into slot i and advances focus past it.
// An empty value clears the slot. Anything else is rejected.
func (e *Entry) Set(i int, value string) bool {
	if i < 0 || i >= Length {
		return false
	}
	if value == "" {
		e.slots[i] = 0
		e.focus = i
		return true
	}
	runes := []rune(value)
	if len(runes) != 1 || !isDigit(runes[0]) {
		return false
	}
	r := runes[0]
	e.slots[i] = r
	e.focus = clamp(i + 1)
	return true
}

// Backspace clears the focused slot. On an already empty slot focus moves one
// slot back and that slot is cleared instead.
func (e *Entry) Backspace() {
	if e.slots[e.focus] != 0 {
		e.slots[e.focus] = 0
		return
	}
	if e.focus == 0 {
		return
	}
	e.focus--
	e.slots[e.focus] = 0
}

// Paste fills all slots from s. Only a string of exactly six digits is
// accepted; anything else leaves the entry untouched.
func (e *Entry) Paste(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !isDigit(r) {
			return false
		}
	}
	for i, r := range s {
		e.slots[i] = r
	}
	e.focus = Length - 1
	return true
}

// Focus moves focus to slot i (clamped into range).
func (e *Entry) Focus(i int) { e.focus = clamp(i) }

func (e *Entry) Focused() int { return e.focus }

// Slots returns the slot contents; empty slots are "".
func (e *Entry) Slots() [Length]string {
	var out [Length]string
	for i, r := range e.slots {
		if r != 0 {
			out[i] = string(r)
		}
	}
	return out
}

// Code concatenates the filled slots.
func (e *Entry) Code() string {
	var b strings.Builder
	for _, r := range e.slots {
		if r != 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Complete reports whether every slot holds a digit.
func (e *Entry) Complete() bool {
	for _, r := range e.slots {
		if r == 0 {
			return false
		}
	}
	return true
}

// Clear empties all slots and focuses slot 0.
func (e *Entry) Clear() {
	e.slots = [Length]rune{}
	e.focus = 0
}

// String renders the entry as "1 2 _ _ _ _" for terminal display.
func (e *Entry) String() string {
	parts := make([]string, Length)
	for i, s := range e.Slots() {
		if s == "" {
			s = "_"
		}
		if i == e.focus {
			s = "[" + s + "]"
		}
		parts[i] = s
	}
	return strings.Join(parts, " ")
}
