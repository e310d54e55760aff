package entity

// Class is one of five ordered orb tiers. Higher tiers are worth more
// points and carry denser mass.
type Class int

const (
	ClassCrimson Class = iota
	ClassAmber
	ClassViridian
	ClassAzure
	ClassViolet

	classCount // must stay last
)

var classNames = [classCount]string{"crimson", "amber", "viridian", "azure", "violet"}

func (c Class) String() string {
	if c < 0 || c >= classCount {
		return "unknown"
	}
	return classNames[c]
}

var classBasePoints = [classCount]int{10, 15, 25, 40, 60}

// BasePoints is the score value of an orb of this class before any
// size multiplier is applied.
func (c Class) BasePoints() int {
	if c < 0 || c >= classCount {
		return 0
	}
	return classBasePoints[c]
}

var classMassMultipliers = [classCount]float64{1.0, 1.1, 1.25, 1.4, 1.6}

// MassMultiplier scales the area-derived mass of an orb of this class.
func (c Class) MassMultiplier() float64 {
	if c < 0 || c >= classCount {
		return 1.0
	}
	return classMassMultipliers[c]
}

// Diameter thresholds for classifying fused orbs. An orb with diameter
// below thresholds[i] classifies as Class(i).
var classDiameterThresholds = [classCount - 1]float64{40, 70, 100, 140}

// ClassForDiameter maps a diameter onto the tier ladder. Used when a
// fusion produces an orb whose class must be re-derived from its size.
func ClassForDiameter(d float64) Class {
	for i, threshold := range classDiameterThresholds {
		if d < threshold {
			return Class(i)
		}
	}
	return ClassViolet
}

// Classes returns all tiers in ascending order.
func Classes() []Class {
	out := make([]Class, classCount)
	for i := range out {
		out[i] = Class(i)
	}
	return out
}
