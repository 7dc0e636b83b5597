package sim

// teamStrength averages the side's attacking quality over its on-field
// players: age-modified shooting, pace, passing and physicality plus a form
// component.
func teamStrength(side *matchSide) float64 {
	players := side.onField()
	if len(players) == 0 {
		return 1.0
	}
	total := 0.0
	for _, mp := range players {
		p := mp.player
		total += float64(p.AgeModifiedAttribute(p.Shooting))*0.4 +
			float64(p.AgeModifiedAttribute(p.Pace))*0.2 +
			float64(p.AgeModifiedAttribute(p.Passing))*0.2 +
			float64(p.AgeModifiedAttribute(p.Physicality))*0.1 +
			float64(p.Form)*0.1
	}
	return total / float64(len(players))
}

// fitnessMean returns the mean current fitness of on-field players.
func fitnessMean(side *matchSide) float64 {
	players := side.onField()
	if len(players) == 0 {
		return 0
	}
	total := 0.0
	for _, mp := range players {
		total += mp.fitness
	}
	return total / float64(len(players))
}
