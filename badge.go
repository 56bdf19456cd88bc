package bubblestack

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidBadge is returned when a badge declaration breaks a body
// invariant (empty or duplicate id, non-positive radius, restitution outside
// [0, 1]).
var ErrInvalidBadge = errors.New("invalid badge")

// Badge is the single source of truth for one bubble: the physics body and
// the visual element bound to it are both derived from this record.
type Badge struct {
	// ID names both the body and its visual element ("bubble0", ...).
	ID string `yaml:"id"`
	// URL is the click target. Opaque to the simulation.
	URL string `yaml:"url"`
	// Image is the asset key the host resolves to a texture. Opaque to the
	// simulation.
	Image string `yaml:"image"`
	// Position is the body's center in reference container coordinates.
	Position Vec2 `yaml:"position"`
	// Radius is the body radius in reference units.
	Radius float64 `yaml:"radius"`
	// Restitution scales the rebound velocity after a collision.
	Restitution float64 `yaml:"restitution"`
}

// BadgeID returns the element id for the badge at declaration index i.
func BadgeID(i int) string {
	return fmt.Sprintf("bubble%d", i)
}

// DefaultBadges returns the five designed badges in declaration order.
func DefaultBadges() []Badge {
	return []Badge{
		{
			ID:          BadgeID(0),
			URL:         "https://www.datadoghq.com/",
			Image:       "datadog_bubble",
			Position:    Vec2{500, 200},
			Radius:      175,
			Restitution: 0.8,
		},
		{
			ID:          BadgeID(1),
			URL:         "https://play.google.com/store/apps/details?id=com.figma.mirror",
			Image:       "figma_bubble",
			Position:    Vec2{600, 150},
			Radius:      150,
			Restitution: 0.8,
		},
		{
			ID:          BadgeID(2),
			URL:         "https://foxglove.dev/blog/announcing-insights-for-foxglove-data-platform",
			Image:       "foxglove_bubble",
			Position:    Vec2{550, 300},
			Radius:      50,
			Restitution: 0.8,
		},
		{
			ID:          BadgeID(3),
			URL:         "https://techcrunch.com/2022/08/11/linkedin-tools-helping-creators-post-visual-content/",
			Image:       "linkedin_bubble",
			Position:    Vec2{600, 300},
			Radius:      125,
			Restitution: 0.8,
		},
		{
			ID:          BadgeID(4),
			URL:         "https://www.crunchbase.com/organization/flxder",
			Image:       "flxder_bubble",
			Position:    Vec2{550, 300},
			Radius:      40,
			Restitution: 0.8,
		},
	}
}

// Validate checks a single badge.
func (b Badge) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidBadge)
	}
	if !finite(b.Position.X, b.Position.Y) {
		return fmt.Errorf("%w: %s: position must be finite, got %v", ErrInvalidBadge, b.ID, b.Position)
	}
	if !(b.Radius > 0) || math.IsInf(b.Radius, 0) {
		return fmt.Errorf("%w: %s: radius must be > 0, got %v", ErrInvalidBadge, b.ID, b.Radius)
	}
	if b.Restitution < 0 || b.Restitution > 1 || math.IsNaN(b.Restitution) {
		return fmt.Errorf("%w: %s: restitution must be in [0, 1], got %v", ErrInvalidBadge, b.ID, b.Restitution)
	}
	return nil
}

// finite reports whether every value is a real number.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ValidateBadges checks every badge and rejects duplicate ids.
func ValidateBadges(badges []Badge) error {
	seen := make(map[string]struct{}, len(badges))
	for _, b := range badges {
		if err := b.Validate(); err != nil {
			return err
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidBadge, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

// NewBodySet derives one dynamic circle per badge, in declaration order.
// Positions are scaled per axis and radii by the smaller factor so circles
// stay round in a stretched container.
func NewBodySet(badges []Badge, scale Vec2) ([]*Body, error) {
	if err := ValidateBadges(badges); err != nil {
		return nil, err
	}
	if scale.X <= 0 || scale.Y <= 0 {
		scale = Vec2{1, 1}
	}
	rs := math.Min(scale.X, scale.Y)
	bodies := make([]*Body, len(badges))
	for i, b := range badges {
		bodies[i] = NewCircle(b.ID, b.Position.X*scale.X, b.Position.Y*scale.Y, b.Radius*rs, b.Restitution)
	}
	return bodies, nil
}
