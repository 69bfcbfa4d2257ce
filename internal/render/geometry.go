package render

import (
	"fmt"
	"time"

	"github.com/skatdesk/skatdesk/internal/card"
)

// Point is a position on the table in percent of its width and height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Easing is a cubic-bezier timing curve.
type Easing struct {
	Name string     `json:"name"`
	P    [4]float64 `json:"p"`
}

// CSS renders the curve as a CSS timing function.
func (e Easing) CSS() string {
	return fmt.Sprintf("cubic-bezier(%g, %g, %g, %g)", e.P[0], e.P[1], e.P[2], e.P[3])
}

var (
	// EaseOutBack overshoots the target slightly before settling.
	EaseOutBack = Easing{Name: "ease-out-back", P: [4]float64{0.34, 1.56, 0.64, 1}}
	EaseIn      = Easing{Name: "ease-in", P: [4]float64{0.42, 0, 1, 1}}
)

// Motion is a transition of a trick token from wherever it is now.
type Motion struct {
	To       Point         `json:"to"`
	Scale    float64       `json:"scale"`
	Opacity  float64       `json:"opacity"`
	Duration time.Duration `json:"duration"`
	Easing   Easing        `json:"easing"`
}

// SideStart is where a card played by p enters the table.
func SideStart(p card.Player) Point {
	switch p {
	case card.AILeft:
		return Point{X: 10, Y: 35}
	case card.AIRight:
		return Point{X: 90, Y: 35}
	default:
		return Point{X: 50, Y: 90}
	}
}

// SlotRest is the resting position of trick slot i.
func SlotRest(slot int) Point {
	switch slot {
	case 0:
		return Point{X: 42, Y: 48}
	case 1:
		return Point{X: 50, Y: 44}
	default:
		return Point{X: 58, Y: 48}
	}
}

// ScoreAnchor is the score display a trick won by p flies to. The human
// collects for the declarer, either AI for the team.
func ScoreAnchor(p card.Player) Point {
	if p == card.Human {
		return Point{X: 88, Y: 92}
	}
	return Point{X: 88, Y: 6}
}

// Entrance moves a freshly placed token to its slot.
func Entrance(slot int, d time.Duration) Motion {
	return Motion{To: SlotRest(slot), Scale: 1, Opacity: 1, Duration: d, Easing: EaseOutBack}
}

// Collection flies a token toward the winner's score display, shrinking and
// fading it out.
func Collection(winner card.Player, d time.Duration) Motion {
	return Motion{To: ScoreAnchor(winner), Scale: 0, Opacity: 0, Duration: d, Easing: EaseIn}
}
