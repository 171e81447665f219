package plot

import (
	"fmt"

	"raincloud/domain/core"
)

// Side selects which side of the anchor the violin lobe occupies.
type Side string

const (
	SideLeft  Side = "Left"
	SideRight Side = "Right"
)

// ParseSide parses a form value into a Side, defaulting to Left.
func ParseSide(s string) Side {
	if s == string(SideRight) {
		return SideRight
	}
	return SideLeft
}

// JitterDirection returns the sign applied to the box-to-points offset.
// Points are always pushed away from the violin lobe: a left-side violin
// pushes points right (+1), a right-side violin pushes them left (-1).
func (s Side) JitterDirection() float64 {
	if s == SideRight {
		return -1
	}
	return 1
}

// LayoutSpec is the per-pass geometry configuration, shared by all groups.
// It is an immutable snapshot: the engine reads it, never writes it.
type LayoutSpec struct {
	GroupSpacing     float64
	ViolinWidth      float64
	BoxWidth         float64
	ViolinBoxGap     float64
	BoxPointsGap     float64
	PointJitterWidth float64
	ViolinSide       Side
}

// DefaultLayoutSpec mirrors the tool's initial slider positions.
func DefaultLayoutSpec() LayoutSpec {
	return LayoutSpec{
		GroupSpacing:     1.0,
		ViolinWidth:      0.8,
		BoxWidth:         0.3,
		ViolinBoxGap:     0.0,
		BoxPointsGap:     0.2,
		PointJitterWidth: 0.2,
		ViolinSide:       SideLeft,
	}
}

// Validate rejects geometry that cannot be drawn.
func (s LayoutSpec) Validate() error {
	if s.GroupSpacing <= 0 {
		return fmt.Errorf("%w: group spacing must be positive, got %g", core.ErrInvalidLayout, s.GroupSpacing)
	}
	if s.ViolinWidth <= 0 || s.BoxWidth <= 0 {
		return fmt.Errorf("%w: widths must be positive", core.ErrInvalidLayout)
	}
	if s.PointJitterWidth < 0 {
		return fmt.Errorf("%w: jitter width cannot be negative", core.ErrInvalidLayout)
	}
	if s.ViolinSide != SideLeft && s.ViolinSide != SideRight {
		return fmt.Errorf("%w: violin side must be Left or Right", core.ErrInvalidLayout)
	}
	return nil
}

// GroupPositions holds the horizontal anchors for one group's three
// primitives. PointAnchors has one entry per observation, jitter included.
type GroupPositions struct {
	ViolinAnchor float64
	BoxAnchor    float64
	PointAnchors []float64
}
