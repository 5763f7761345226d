// Package scatter places gallery cards on a large virtual canvas so they look
// hand-scattered while staying deterministic for a given item count.
package scatter

import (
	"math"

	"github.com/nikbrunner/gallery/internal/model"
)

const (
	// InitialRadius is the radius of the disc around the canvas center that
	// holds the initially visible cards.
	InitialRadius = 500

	// Attempts is the rejection-sampling budget per card.
	Attempts = 40

	// overlapFactor relaxes the minimum distance so cards may overlap a little.
	overlapFactor = 0.5

	// maxTilt is the full rotation range in degrees (±maxTilt/2).
	maxTilt = 10
)

// Params describes the canvas and card geometry.
type Params struct {
	Size           float64 // square canvas edge
	CardWidth      float64
	CardHeight     float64
	MinDistance    float64 // desired center-to-center distance (best effort)
	InitialVisible int     // leading items biased toward the canvas center
}

// DefaultParams returns the stock gallery geometry.
func DefaultParams() Params {
	return Params{
		Size:           4000,
		CardWidth:      260,
		CardHeight:     340,
		MinDistance:    160,
		InitialVisible: 12,
	}
}

// MaxX is the largest valid top-left X for a card.
func (p Params) MaxX() float64 {
	return math.Max(0, p.Size-p.CardWidth)
}

// MaxY is the largest valid top-left Y for a card.
func (p Params) MaxY() float64 {
	return math.Max(0, p.Size-p.CardHeight)
}

// Layout assigns every item a position and tilt, in input order.
// It never fails: when no candidate satisfies the distance test within the
// attempt budget the last candidate is used.
func Layout(items []model.GalleryItem, p Params) []model.PlacedCard {
	rng := NewRand(Seed(len(items)))
	center := p.Size / 2
	minDist := p.MinDistance * p.MinDistance * overlapFactor

	cards := make([]model.PlacedCard, 0, len(items))
	for idx, item := range items {
		var x, y float64
		if idx < p.InitialVisible {
			x, y = p.inDisc(rng, center)
		} else {
			x, y = p.sample(rng, cards, minDist)
		}

		cards = append(cards, model.PlacedCard{
			GalleryItem: item,
			X:           clamp(x, 0, p.MaxX()),
			Y:           clamp(y, 0, p.MaxY()),
			Rotation:    (rng.Float64() - 0.5) * maxTilt,
		})
	}
	return cards
}

// inDisc draws an area-uniform point in the center disc and converts it to
// the card's top-left corner.
func (p Params) inDisc(rng *Rand, center float64) (float64, float64) {
	angle := rng.Float64() * math.Pi * 2
	r := math.Sqrt(rng.Float64()) * InitialRadius
	x := math.Floor(center + r*math.Cos(angle) - p.CardWidth/2)
	y := math.Floor(center + r*math.Sin(angle) - p.CardHeight/2)
	return x, y
}

// sample runs rejection sampling against the cards placed so far.
func (p Params) sample(rng *Rand, placed []model.PlacedCard, minDist float64) (float64, float64) {
	var x, y float64
	for a := 0; a < Attempts; a++ {
		x = math.Floor(rng.Float64() * (p.Size - p.CardWidth))
		y = math.Floor(rng.Float64() * (p.Size - p.CardHeight))
		if p.farEnough(x, y, placed, minDist) {
			return x, y
		}
	}
	return x, y
}

// farEnough reports whether a card at (x, y) keeps minDist (squared) from
// every placed card. Cards share a size, so top-left deltas equal center deltas.
func (p Params) farEnough(x, y float64, placed []model.PlacedCard, minDist float64) bool {
	for _, c := range placed {
		dx := (c.X + p.CardWidth/2) - (x + p.CardWidth/2)
		dy := (c.Y + p.CardHeight/2) - (y + p.CardHeight/2)
		if dx*dx+dy*dy < minDist {
			return false
		}
	}
	return true
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
