package app

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

var orderAdjectives = []string{
	"amber", "bold", "brisk", "calm", "clear", "eager", "fleet", "keen",
	"lucid", "noble", "prime", "quick", "solid", "swift", "vivid", "warm",
}

var orderNouns = []string{
	"atlas", "comet", "delta", "ember", "flint", "harbor", "lumen", "maple",
	"orbit", "quartz", "ridge", "sable", "summit", "tide", "vertex", "zephyr",
}

// newOrderNumber builds a human-readable order number: fixed prefix, a random
// word pair, and a time-derived suffix, upper-cased. Collisions are unlikely
// but possible; the orders table enforces uniqueness.
func newOrderNumber(now time.Time) string {
	adj := orderAdjectives[randIndex(len(orderAdjectives))]
	noun := orderNouns[randIndex(len(orderNouns))]
	suffix := now.UnixMilli() % 1_000_000
	return strings.ToUpper(fmt.Sprintf("BX-%s-%s-%06d", adj, noun, suffix))
}

func randIndex(n int) int {
	b := make([]byte, 2)
	if _, err := rand.Read(b); err != nil {
		return 0
	}
	return (int(b[0])<<8 | int(b[1])) % n
}
