package memfs

import (
	"fmt"
	"math"
	"strings"
)

// SeekMode selects the base a seek offset is measured from
type SeekMode uint8

const (
	SeekModeStart SeekMode = iota
	SeekModeCurrent
	SeekModeEnd
)

func (m SeekMode) String() string {
	switch m {
	case SeekModeStart:
		return "start"
	case SeekModeCurrent:
		return "current"
	case SeekModeEnd:
		return "end"
	default:
		return fmt.Sprintf("SeekMode(%d)", uint8(m))
	}
}

// ParseSeekMode accepts "start"/"set", "current"/"cur" and "end"
func ParseSeekMode(s string) (SeekMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start", "set":
		return SeekModeStart, nil
	case "current", "cur":
		return SeekModeCurrent, nil
	case "end":
		return SeekModeEnd, nil
	}
	return 0, fmt.Errorf("unknown seek mode %q", s)
}

// Whence is a seek request: an offset relative to the start of the file,
// the descriptor's cursor or the end of the file.
type Whence struct {
	Mode   SeekMode
	Offset int64
}

// Start seeks to the absolute position n
func Start(n int64) Whence { return Whence{Mode: SeekModeStart, Offset: n} }

// Current seeks delta bytes from the cursor
func Current(delta int64) Whence { return Whence{Mode: SeekModeCurrent, Offset: delta} }

// End seeks delta bytes from the end of the file
func End(delta int64) Whence { return Whence{Mode: SeekModeEnd, Offset: delta} }

func (w Whence) String() string {
	return fmt.Sprintf("%s(%d)", w.Mode, w.Offset)
}

// Resolve computes the absolute position w designates for a descriptor whose
// cursor is at cur on a file of length size. The result must lie in
// [0, size]; anything else, including arithmetic overflow, is
// ErrSeekOutOfRange.
func (w Whence) Resolve(cur, size int64) (int64, error) {
	var base int64
	switch w.Mode {
	case SeekModeStart:
		base = 0
	case SeekModeCurrent:
		base = cur
	case SeekModeEnd:
		base = size
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalidType, w.Mode)
	}

	if (w.Offset > 0 && base > math.MaxInt64-w.Offset) ||
		(w.Offset < 0 && base < math.MinInt64-w.Offset) {
		return 0, fmt.Errorf("%w: %s overflows from %d", ErrSeekOutOfRange, w, base)
	}
	pos := base + w.Offset
	if pos < 0 {
		return 0, fmt.Errorf("%w: %s resolves to negative position %d", ErrSeekOutOfRange, w, pos)
	}
	if pos > size {
		return 0, fmt.Errorf("%w: %s resolves to %d past end %d", ErrSeekOutOfRange, w, pos, size)
	}
	return pos, nil
}
