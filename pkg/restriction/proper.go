// Package restriction resolves relation-based turn restrictions and
// point barriers into concrete ProperRestriction triples tied to dense
// segment ids, expanding only_* relations into their complementary
// no_* set.
package restriction

import "github.com/paulmach/osm"

// ProperRestriction is a resolved restriction between two concrete
// segments meeting at a node: turning from FromSegment onto ToSegment
// through ViaNode is restricted per Type.
type ProperRestriction struct {
	FromSegment int64
	ToSegment   int64
	ViaNode     osm.NodeID
	Type        string // no_left_turn, no_u_turn, only_straight_on, barrier, ...
	Parent      string // "relation/<id>" or "barrier/<node id>"

	AngleDegrees float64
	HasAngle     bool

	// Cost is set for barrier-derived restrictions: the fixed traversal
	// penalty in seconds rather than an outright prohibition.
	Cost    float64
	HasCost bool
}

func onlyToNo(restrictionType string) (string, bool) {
	switch restrictionType {
	case "only_left_turn":
		return "no_left_turn", true
	case "only_right_turn":
		return "no_right_turn", true
	case "only_straight_on":
		return "no_straight_on", true
	}
	return "", false
}

func isOnly(restrictionType string) bool {
	_, ok := onlyToNo(restrictionType)
	return ok
}
