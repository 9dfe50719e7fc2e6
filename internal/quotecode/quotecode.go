// Package quotecode generates the human-shareable codes that act as the
// public lookup keys for quotes.
package quotecode

import (
	"crypto/rand"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Pattern matches every code Generate can produce.
var Pattern = regexp.MustCompile(`^Q-[0-9A-Z]+-[0-9A-Z]{6}$`)

// Generate returns a URL-safe quote code of the form
// Q-<base36 unix-ms>-<6 random base36 chars>. The timestamp segment
// keeps codes generated in different milliseconds distinct; the random
// segment separates codes minted within the same millisecond.
func Generate() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))

	var buf [6]byte
	suffix := make([]byte, 6)
	if _, err := rand.Read(buf[:]); err != nil {
		// Degrade to a time-derived suffix; uniqueness then rests on the
		// nanosecond clock alone.
		ns := strings.ToUpper(strconv.FormatInt(time.Now().UnixNano(), 36))
		copy(suffix, ns[len(ns)-6:])
	} else {
		for i, b := range buf {
			suffix[i] = alphabet[int(b)%len(alphabet)]
		}
	}

	return "Q-" + ts + "-" + string(suffix)
}
