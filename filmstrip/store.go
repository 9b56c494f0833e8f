package filmstrip

import (
	"fmt"
	"math"
)

// Store holds the preloaded frames of one filmstrip, addressable by index.
// Its length is fixed at construction; it reports ready exactly once, when
// every index has been loaded.
type Store struct {
	total  int
	frames []Frame
	loaded []bool
	count  int
	ready  bool
}

// NewStore creates an empty store for totalFrames frames.
func NewStore(totalFrames int) (*Store, error) {
	if totalFrames <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameCount, totalFrames)
	}
	return &Store{
		total:  totalFrames,
		frames: make([]Frame, totalFrames),
		loaded: make([]bool, totalFrames),
	}, nil
}

// Add records a loaded frame. It returns true only for the call that
// completes the store; duplicates and out-of-range indices are ignored.
func (s *Store) Add(f Frame) bool {
	if s == nil || f.Index < 0 || f.Index >= s.total || s.loaded[f.Index] {
		return false
	}
	s.frames[f.Index] = f
	s.loaded[f.Index] = true
	s.count++
	if s.count == s.total && !s.ready {
		s.ready = true
		return true
	}
	return false
}

// Len returns the configured frame count.
func (s *Store) Len() int { return s.total }

// Loaded returns how many distinct frames have been added.
func (s *Store) Loaded() int { return s.count }

// Ready reports whether every frame has been loaded.
func (s *Store) Ready() bool { return s.ready }

// At returns the frame at index i without normalization.
func (s *Store) At(i int) (Frame, bool) {
	if s == nil || i < 0 || i >= s.total || !s.loaded[i] {
		return Frame{}, false
	}
	return s.frames[i], true
}

// Get returns the frame shown for the continuous position currentFrame.
func (s *Store) Get(currentFrame float64) (Frame, bool) {
	if s == nil {
		return Frame{}, false
	}
	return s.At(Normalize(currentFrame, s.total))
}

// Normalize maps a continuous frame position onto a frame index:
//
//	c = -ceil(currentFrame mod totalFrames)
//	if c < 0: c += totalFrames - 1
//
// mod keeps the sign of currentFrame. Whole negative positions map to
// 1..totalFrames-1 and whole positive ones to totalFrames-2..0, so integer
// input always lands in [0, totalFrames-1]. A fractional position between
// totalFrames-1 and totalFrames (mod totalFrames) yields -1; callers treat
// that as "no frame".
func Normalize(currentFrame float64, totalFrames int) int {
	if totalFrames <= 0 || math.IsNaN(currentFrame) || math.IsInf(currentFrame, 0) {
		return 0
	}
	c := -math.Ceil(math.Mod(currentFrame, float64(totalFrames)))
	if c < 0 {
		c += float64(totalFrames - 1)
	}
	return int(c)
}
