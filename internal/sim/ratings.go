package sim

import (
	"math"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain"
)

// playerRating scores one appearance on the 1.0–10.0 scale.
//
// Base 6.0; +1.0 per goal; +0.5 per assist; -0.3 per yellow; -1.5 per red;
// goalkeepers gain +1.0 for a clean sheet and lose 1.0 when conceding more
// than three; form adds up to ±1.0 and low fitness subtracts up to 1.0.
func playerRating(mp *matchPlayer, conceded int) float64 {
	rating := 6.0
	rating += float64(mp.goals) * 1.0
	rating += float64(mp.assists) * 0.5
	rating -= float64(mp.yellows) * 0.3
	rating -= float64(mp.reds) * 1.5

	if mp.player.Position == domain.PositionGK {
		if conceded == 0 {
			rating += 1.0
		} else if conceded > 3 {
			rating -= 1.0
		}
	}

	rating += (float64(mp.player.Form) - 50) / 50
	rating -= (100 - mp.fitness) / 100

	if rating < 1.0 {
		rating = 1.0
	}
	if rating > 10.0 {
		rating = 10.0
	}
	return math.Round(rating*10) / 10
}
