package server

import (
	"github.com/alikri/ws-battleship/internal/game"
	"github.com/alikri/ws-battleship/internal/models"
)

// specsFromShips maps client ships onto vessel specs. A true direction runs
// the ship down the Y axis.
func specsFromShips(ships []models.Ship) []game.VesselSpec {
	out := make([]game.VesselSpec, 0, len(ships))
	for _, s := range ships {
		out = append(out, game.VesselSpec{
			Origin:     game.Coordinate{X: s.Position.X, Y: s.Position.Y},
			Horizontal: !s.Direction,
			Length:     s.Length,
			Kind:       game.Kind(s.Type),
		})
	}
	return out
}

func shipsFromVessels(vessels []*game.Vessel) []models.Ship {
	out := make([]models.Ship, 0, len(vessels))
	for _, v := range vessels {
		out = append(out, models.Ship{
			Position:  position(v.Origin()),
			Direction: !v.Horizontal(),
			Length:    v.Length(),
			Type:      string(v.Kind()),
		})
	}
	return out
}

func position(c game.Coordinate) models.Position {
	return models.Position{X: c.X, Y: c.Y}
}
