package domain

// Immutable geographic position of a road node.
type Coordinates struct {
	Lat float64
	Lon float64
}
