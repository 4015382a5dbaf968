package sim

// PlacementCost is the handling cost of storing p on s:
// frequency × (access cost + operational cost).
// Every strategy charges exactly this once per committed placement.
func PlacementCost(p *Product, s *Shelf) float64 {
	return unitPlacementCost(p.Frequency, s.UnitCost())
}

func unitPlacementCost(frequency int, unitCost float64) float64 {
	return float64(frequency) * unitCost
}
