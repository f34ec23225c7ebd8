package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/alikri/ws-battleship/internal/game"
)

// DefaultFleet is the classic ten-ship fleet: one 4, two 3s, three 2s, four 1s.
const DefaultFleet = "1x4,2x3,3x2,4x1"

// Class is a group of identical vessels in a fleet.
type Class struct {
	Count  int
	Length int
}

var classRe = regexp.MustCompile(`(?i)^\s*(\d+)\s*x\s*(\d+)\s*$`)

// ParseFleet reads a comma separated list of COUNTxLENGTH terms, e.g.
// "1x4,2x3". Classes are returned longest first.
func ParseFleet(expr string) ([]Class, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, errors.New("fleet expression is empty")
	}
	var out []Class
	for _, term := range strings.Split(expr, ",") {
		m := classRe.FindStringSubmatch(term)
		if m == nil {
			return nil, fmt.Errorf("bad fleet term %q", strings.TrimSpace(term))
		}
		count, _ := strconv.Atoi(m[1])
		length, _ := strconv.Atoi(m[2])
		if count < 1 || length < 1 {
			return nil, fmt.Errorf("bad fleet term %q", strings.TrimSpace(term))
		}
		out = append(out, Class{Count: count, Length: length})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Length > out[j-1].Length; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

const (
	placeAttempts  = 200
	layoutAttempts = 50
)

// RandomFleet lays out the given classes on a size x size grid so that no
// two vessels overlap or touch, including diagonally.
func RandomFleet(rng *rand.Rand, size int, classes []Class) ([]game.VesselSpec, error) {
	if size < 1 {
		return nil, fmt.Errorf("grid size %d", size)
	}
	for attempt := 0; attempt < layoutAttempts; attempt++ {
		if specs, ok := tryLayout(rng, size, classes); ok {
			return specs, nil
		}
	}
	return nil, fmt.Errorf("could not fit fleet on %dx%d grid", size, size)
}

func tryLayout(rng *rand.Rand, size int, classes []Class) ([]game.VesselSpec, bool) {
	blocked := map[game.Coordinate]bool{}
	var specs []game.VesselSpec
	for _, cls := range classes {
		for n := 0; n < cls.Count; n++ {
			spec, ok := placeOne(rng, size, cls.Length, blocked)
			if !ok {
				return nil, false
			}
			specs = append(specs, spec)
		}
	}
	return specs, true
}

func placeOne(rng *rand.Rand, size, length int, blocked map[game.Coordinate]bool) (game.VesselSpec, bool) {
	for i := 0; i < placeAttempts; i++ {
		horizontal := rng.Intn(2) == 0
		maxX, maxY := size, size
		if horizontal {
			maxX = size - length + 1
		} else {
			maxY = size - length + 1
		}
		if maxX < 1 || maxY < 1 {
			return game.VesselSpec{}, false
		}
		spec := game.VesselSpec{
			Origin:     game.Coordinate{X: rng.Intn(maxX), Y: rng.Intn(maxY)},
			Horizontal: horizontal,
			Length:     length,
			Kind:       game.KindForLength(length),
		}
		cells := cellsOf(spec)
		free := true
		for _, c := range cells {
			if blocked[c] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for _, c := range cells {
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					blocked[game.Coordinate{X: c.X + dx, Y: c.Y + dy}] = true
				}
			}
		}
		return spec, true
	}
	return game.VesselSpec{}, false
}

func cellsOf(spec game.VesselSpec) []game.Coordinate {
	out := make([]game.Coordinate, 0, spec.Length)
	for i := 0; i < spec.Length; i++ {
		c := spec.Origin
		if spec.Horizontal {
			c.X += i
		} else {
			c.Y += i
		}
		out = append(out, c)
	}
	return out
}
