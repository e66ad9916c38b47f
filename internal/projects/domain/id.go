package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"
)

// ID identifies a project. Catalog and timestamp ids are JSON numbers, remote
// rows may carry strings; both decode to the same textual form so lookups
// compare them as strings.
type ID string

func (id ID) String() string { return string(id) }

func (id *ID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("project id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("project id: %w", err)
	}
	*id = ID(canonicalNumber(n.String()))
	return nil
}

// maxExactInt is the largest integer a float64 holds exactly (2^53).
const maxExactInt = 1 << 53

// canonicalNumber rewrites integral forms such as "1001.0" or "1.7e12" as
// plain decimals so they compare equal to the ids written by this service.
func canonicalNumber(s string) string {
	if isIntegral(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// MarshalJSON writes integral ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if isIntegral(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// isIntegral accepts canonical decimal integers that survive a float64 round trip.
func isIntegral(s string) bool {
	if s == "" || len(s) > 15 {
		return false
	}
	if len(s) > 1 && s[0] == '0' {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// IDGenerator hands out millisecond-timestamp ids that never repeat or go
// backwards within one process.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator(now func() time.Time) *IDGenerator {
	if now == nil {
		now = time.Now
	}
	return &IDGenerator{now: now}
}

func (g *IDGenerator) Next() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return ID(strconv.FormatInt(n, 10))
}
