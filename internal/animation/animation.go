// Package animation computes the selection fly-over: a box travelling from a
// result row to the Player pane while fading out. It only produces values;
// drawing is left to the caller.
package animation

import (
	"math"
	"sync"
	"time"

	"mixdeck/internal/domain"
)

// DefaultDuration is the length of the fly-over
const DefaultDuration = 800 * time.Millisecond

// SourceOpacity is how far the selected row dims while the box is in flight
const SourceOpacity = 0.3

// Target box in pixels, centred in the player pane
const (
	targetPixels = 200
	// A terminal cell is roughly 8x16 pixels
	cellWidthPx  = 8
	cellHeightPx = 16
)

// Easing curve control points, cubic-bezier(0.25, 0.46, 0.45, 0.94)
var easeOutQuad = Bezier{X1: 0.25, Y1: 0.46, X2: 0.45, Y2: 0.94}

// Intent is one animation: where it starts, where it ends, how long it takes
type Intent struct {
	From     domain.Rect
	To       domain.Rect
	Duration time.Duration
}

// NewSelectionIntent flies from the selected row to a 200x200 pixel box
// centred in the player pane, clamped to the pane.
func NewSelectionIntent(source, player domain.Rect, duration time.Duration) Intent {
	w := min(targetPixels/cellWidthPx, player.W)
	h := min(targetPixels/cellHeightPx, player.H)
	to := domain.Rect{
		X: player.X + (player.W-w)/2,
		Y: player.Y + (player.H-h)/2,
		W: w,
		H: h,
	}
	return Intent{From: source, To: to, Duration: duration}
}

// Frame is the animated box at one point in time
type Frame struct {
	Rect    domain.Rect
	Opacity float64
	Done    bool
}

// At returns the frame after elapsed time. Zero or negative durations finish at once.
func (i Intent) At(elapsed time.Duration) Frame {
	if i.Duration <= 0 || elapsed >= i.Duration {
		return Frame{Rect: i.To, Opacity: 0, Done: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	t := float64(elapsed) / float64(i.Duration)
	p := easeOutQuad.Ease(t)
	return Frame{
		Rect: domain.Rect{
			X: lerp(i.From.X, i.To.X, p),
			Y: lerp(i.From.Y, i.To.Y, p),
			W: lerp(i.From.W, i.To.W, p),
			H: lerp(i.From.H, i.To.H, p),
		},
		Opacity: 1 - p,
	}
}

func lerp(a, b int, p float64) int {
	return a + int(math.Round(float64(b-a)*p))
}

// Bezier is a CSS-style cubic-bezier timing function with endpoints (0,0) and (1,1)
type Bezier struct {
	X1, Y1, X2, Y2 float64
}

// Ease maps linear progress t in [0,1] to eased progress
func (b Bezier) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return sample(b.Y1, b.Y2, b.solveX(t))
}

// solveX finds the curve parameter whose x equals t
func (b Bezier) solveX(t float64) float64 {
	// Newton-Raphson, falling back to bisection
	u := t
	for range 8 {
		x := sample(b.X1, b.X2, u) - t
		if math.Abs(x) < 1e-6 {
			return u
		}
		d := slope(b.X1, b.X2, u)
		if math.Abs(d) < 1e-6 {
			break
		}
		u -= x / d
	}

	lo, hi := 0.0, 1.0
	u = t
	for range 50 {
		x := sample(b.X1, b.X2, u)
		if math.Abs(x-t) < 1e-6 {
			break
		}
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return u
}

// sample evaluates one coordinate of the curve at parameter u
func sample(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
}

func slope(p1, p2, u float64) float64 {
	v := 1 - u
	return 3*v*v*p1 + 6*v*u*(p2-p1) + 3*u*u*(1-p2)
}

// Animator allows one fly-over at a time
type Animator struct {
	mu      sync.Mutex
	active  bool
	intent  Intent
	started time.Time
	image   domain.SelectedImage
}

// Start begins intent for image. It returns false while another animation runs.
func (a *Animator) Start(intent Intent, image domain.SelectedImage, now time.Time) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.active {
		return false
	}
	a.active = true
	a.intent = intent
	a.started = now
	a.image = image
	return true
}

// Active reports whether an animation is running
func (a *Animator) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Frame returns the current frame; ok is false when nothing is running
func (a *Animator) Frame(now time.Time) (frame Frame, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return Frame{}, false
	}
	return a.intent.At(now.Sub(a.started)), true
}

// Finish ends the running animation and returns the image it carried
func (a *Animator) Finish() (domain.SelectedImage, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.active {
		return domain.SelectedImage{}, false
	}
	a.active = false
	img := a.image
	a.image = domain.SelectedImage{}
	return img, true
}
