package snowflake

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Custom epoch: June 1, 2025 00:00:00 UTC.
const epoch int64 = 1748736000000

// Bit layout: 41 bits timestamp, 10 bits node, 12 bits sequence.
const (
	nodeBits     = 10
	sequenceBits = 12

	maxNode     = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	nodeShift      = sequenceBits
	timestampShift = sequenceBits + nodeBits
)

// ID is a snowflake ID that marshals to/from JSON as a string so clients
// running on IEEE-754 doubles keep full precision.
type ID int64

func (id ID) Int64() int64 {
	return int64(id)
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(id), 10))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Accept bare numbers from older clients.
		var n int64
		if nerr := json.Unmarshal(data, &n); nerr != nil {
			return fmt.Errorf("snowflake: cannot unmarshal %s: %w", string(data), err)
		}
		*id = ID(n)
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("snowflake: invalid id string %q: %w", s, err)
	}
	*id = ID(n)
	return nil
}

// Timestamp returns the wall-clock time embedded in the ID.
func (id ID) Timestamp() time.Time {
	ms := (int64(id) >> timestampShift) + epoch
	return time.UnixMilli(ms)
}

// Generator produces unique snowflake IDs for a single node.
type Generator struct {
	mu       sync.Mutex
	node     int64
	sequence int64
	lastTime int64
}

// NewGenerator creates a generator for the given node ID, which must be in
// the range [0, 1023].
func NewGenerator(node int64) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, fmt.Errorf("snowflake: node must be between 0 and %d", maxNode)
	}
	return &Generator{node: node}, nil
}

// Generate returns the next unique snowflake ID.
func (g *Generator) Generate() ID {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli() - epoch

	if now == g.lastTime {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			// Sequence exhausted; spin until the next millisecond.
			for now <= g.lastTime {
				now = time.Now().UnixMilli() - epoch
			}
		}
	} else {
		g.sequence = 0
	}

	g.lastTime = now

	return ID((now << timestampShift) | (g.node << nodeShift) | g.sequence)
}
