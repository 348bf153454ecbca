package gcode

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed
	MovePlunge                  // G1 with Z decreasing only
	MoveRetract                 // G0/G1 with Z increasing only
	MoveArcCW                   // G2
	MoveArcCCW                  // G3
)

// Move is a single parsed movement from GCode. I and J are the arc center
// offsets from the start point and are only set for arc moves.
type Move struct {
	Type     MoveType
	FromX    float64
	FromY    float64
	FromZ    float64
	ToX      float64
	ToY      float64
	ToZ      float64
	I, J     float64
	FeedRate float64
}

var coordRe = regexp.MustCompile(`([XYZFIJ])([-]?\d+\.?\d*)`)

// ParseGCode parses a GCode string into a slice of structured moves.
// It tracks absolute position state and classifies each G0-G3 command.
func ParseGCode(code string) []Move {
	var moves []Move

	curX, curY, curZ := 0.0, 0.0, 0.0
	curFeed := 0.0

	for _, line := range strings.Split(code, "\n") {
		line = stripComment(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		word := strings.Fields(upper)[0]
		var cmd int
		switch word {
		case "G0", "G00":
			cmd = 0
		case "G1", "G01":
			cmd = 1
		case "G2", "G02":
			cmd = 2
		case "G3", "G03":
			cmd = 3
		default:
			continue
		}

		m := Move{FromX: curX, FromY: curY, FromZ: curZ, ToX: curX, ToY: curY, ToZ: curZ, FeedRate: curFeed}
		for _, match := range coordRe.FindAllStringSubmatch(upper, -1) {
			val, err := strconv.ParseFloat(match[2], 64)
			if err != nil {
				continue
			}
			switch match[1] {
			case "X":
				m.ToX = val
			case "Y":
				m.ToY = val
			case "Z":
				m.ToZ = val
			case "F":
				m.FeedRate = val
			case "I":
				m.I = val
			case "J":
				m.J = val
			}
		}

		switch cmd {
		case 2:
			m.Type = MoveArcCW
		case 3:
			m.Type = MoveArcCCW
		default:
			m.Type = classifyMove(cmd == 0, curZ, m.ToZ, curX, curY, m.ToX, m.ToY)
		}
		moves = append(moves, m)

		curX, curY, curZ, curFeed = m.ToX, m.ToY, m.ToZ, m.FeedRate
	}

	return moves
}

// stripComment removes semicolon and parenthetical comments.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	if idx := strings.Index(line, "("); idx >= 0 {
		if end := strings.Index(line, ")"); end > idx {
			line = line[:idx] + line[end+1:]
		}
	}
	return strings.TrimSpace(line)
}

// classifyMove determines the MoveType of a linear move.
func classifyMove(isRapid bool, fromZ, toZ, fromX, fromY, toX, toY float64) MoveType {
	zDelta := toZ - fromZ
	hasXY := fromX != toX || fromY != toY

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Length returns the XY distance covered by the move. Arcs are measured
// along the arc.
func (m Move) Length() float64 {
	if m.Type != MoveArcCW && m.Type != MoveArcCCW {
		return math.Hypot(m.ToX-m.FromX, m.ToY-m.FromY)
	}
	cx, cy := m.FromX+m.I, m.FromY+m.J
	sx, sy := m.FromX-cx, m.FromY-cy
	ex, ey := m.ToX-cx, m.ToY-cy
	sweep := math.Atan2(sx*ey-sy*ex, sx*ex+sy*ey)
	if m.Type == MoveArcCW {
		sweep = -sweep
	}
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return math.Hypot(sx, sy) * sweep
}

// CuttingLength sums the XY length of all feed and arc moves.
func CuttingLength(moves []Move) float64 {
	total := 0.0
	for _, m := range moves {
		switch m.Type {
		case MoveFeed, MoveArcCW, MoveArcCCW:
			total += m.Length()
		}
	}
	return total
}
