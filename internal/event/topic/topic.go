// Package topic names events with dot-separated paths and matches them
// against patterns. In a pattern "*" stands for one segment and "**" for
// any number of segments, including none:
//
//	history.changed      matches history.changed only
//	history.*            matches history.changed
//	history.**           matches history, history.changed, history.command.replayed
//	*.changed            matches history.changed
package topic

import "strings"

// Topic is an event name or pattern such as "history.command.executed".
type Topic string

func (t Topic) String() string { return string(t) }

// IsValid reports whether t is non-empty and has no empty segments.
func (t Topic) IsValid() bool {
	return t != "" && !strings.HasPrefix(string(t), ".") &&
		!strings.HasSuffix(string(t), ".") && !strings.Contains(string(t), "..")
}

// Matches reports whether t is matched by pattern.
func (t Topic) Matches(pattern Topic) bool {
	if t == pattern {
		return true
	}
	return match(split(t), split(pattern))
}

func split(t Topic) []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), ".")
}

func match(name, pattern []string) bool {
	for len(pattern) > 0 {
		head := pattern[0]
		pattern = pattern[1:]
		if head == "**" {
			// Try every possible length for the multi-segment wildcard.
			for skip := 0; skip <= len(name); skip++ {
				if match(name[skip:], pattern) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 || (head != "*" && head != name[0]) {
			return false
		}
		name = name[1:]
	}
	return len(name) == 0
}
