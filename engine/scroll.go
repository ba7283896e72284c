package engine

import (
	"math"
	"time"

	"karaoke-lyrics-go/style"

	"github.com/charmbracelet/harmonica"
)

const (
	scrollFPS = 60

	// Longest gap Advance animates; beyond it the offset jumps
	maxAdvance = time.Second

	// Below these the spring counts as at rest
	scrollSettleDistance = 0.5
	scrollSettleVelocity = 0.5
)

// ScrollAnimator smooths the list scroll offset toward the current line with
// a damped spring. It is not safe for concurrent use.
type ScrollAnimator struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
	stride   float64
	carry    time.Duration
}

// NewScrollAnimator builds an animator with the spring and line geometry
// from cfg.
func NewScrollAnimator(cfg style.Config) *ScrollAnimator {
	return &ScrollAnimator{
		spring: harmonica.NewSpring(harmonica.FPS(scrollFPS), cfg.Animation.ScrollFrequency, cfg.Animation.ScrollDamping),
		stride: cfg.Layout.LineHeight + cfg.Layout.LineSpacing,
	}
}

// SetTargetLine aims the scroll at a line. NoCurrentLine keeps the current
// target so the view holds still between lines.
func (s *ScrollAnimator) SetTargetLine(index int) {
	if index == NoCurrentLine {
		return
	}
	s.target = float64(index) * s.stride
}

// Jump places the scroll on its target with no motion.
func (s *ScrollAnimator) Jump() {
	s.position = s.target
	s.velocity = 0
	s.carry = 0
}

// Update advances one frame and returns the new offset.
func (s *ScrollAnimator) Update() float64 {
	s.position, s.velocity = s.spring.Update(s.position, s.velocity, s.target)
	return s.position
}

// Advance steps as many whole frames as fit into elapsed, carrying the rest
// over to the next call. A gap longer than maxAdvance jumps to the target.
func (s *ScrollAnimator) Advance(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	if s.carry+elapsed > maxAdvance {
		s.Jump()
		return s.position
	}
	frame := time.Second / scrollFPS
	s.carry += elapsed
	for s.carry >= frame {
		s.Update()
		s.carry -= frame
	}
	return s.position
}

func (s *ScrollAnimator) Offset() float64 { return s.position }
func (s *ScrollAnimator) Target() float64 { return s.target }

// Settled reports whether the spring has come to rest on its target.
func (s *ScrollAnimator) Settled() bool {
	return math.Abs(s.position-s.target) < scrollSettleDistance && math.Abs(s.velocity) < scrollSettleVelocity
}
