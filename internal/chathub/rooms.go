package chathub

import "fmt"

// RoomID returns the canonical room identifier for a conversation pair.
// The pair is sorted numerically so both participants resolve to the same
// room regardless of argument order.
func RoomID(a, b uint) string {
	if b < a {
		a, b = b, a
	}
	return fmt.Sprintf("chat_%d_%d", a, b)
}
