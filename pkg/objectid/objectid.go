package objectid

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Length is the number of hex characters in a well-formed identifier.
const Length = 24

var (
	// process-wide random component, fixed at startup like the store does.
	processUnique [5]byte
	counter       atomic.Uint32
)

func init() {
	if _, err := rand.Read(processUnique[:]); err != nil {
		binary.BigEndian.PutUint32(processUnique[:4], uint32(time.Now().UnixNano()))
	}
	var seed [4]byte
	if _, err := rand.Read(seed[:]); err == nil {
		counter.Store(binary.BigEndian.Uint32(seed[:]))
	}
}

// New generates an identifier: 4-byte big-endian seconds timestamp,
// 5-byte process-unique value, 3-byte incrementing counter.
func New() string {
	return NewAt(time.Now())
}

// NewAt generates an identifier carrying the given timestamp.
func NewAt(t time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(t.Unix()))
	copy(b[4:9], processUnique[:])
	c := counter.Add(1)
	b[9] = byte(c >> 16)
	b[10] = byte(c >> 8)
	b[11] = byte(c)
	return hex.EncodeToString(b[:])
}

// Valid reports whether s is a well-formed identifier.
func Valid(s string) bool {
	_, _, ok := decode(s)
	return ok
}

// Timestamp returns the creation time embedded in the identifier.
func Timestamp(s string) (time.Time, error) {
	hi, _, ok := decode(s)
	if !ok {
		return time.Time{}, ErrMalformed
	}
	return time.Unix(int64(hi), 0).UTC(), nil
}

// decode splits a 24-char hex identifier into its high 32 and low 64 bits.
func decode(s string) (hi uint32, lo uint64, ok bool) {
	if len(s) != Length {
		return 0, 0, false
	}
	h, err := strconv.ParseUint(s[:8], 16, 32)
	if err != nil {
		return 0, 0, false
	}
	l, err := strconv.ParseUint(s[8:], 16, 64)
	if err != nil {
		return 0, 0, false
	}
	return uint32(h), l, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
