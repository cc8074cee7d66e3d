package gacha

import (
	"github.com/paimonworks/harem-service/internal/domain"
)

// WeightedSample picks up to count characters from the pool without
// replacement, weighted by rarity (commons ~4x likelier than
// legendaries). Weights are re-normalized over the shrinking remainder
// after each pick, so one roll can never contain duplicates and the
// relative odds stay consistent as the pool depletes.
func WeightedSample(pool []*domain.Character, count int, rng RandomSource) []*domain.Character {
	if count <= 0 || len(pool) == 0 {
		return nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	if count > len(pool) {
		count = len(pool)
	}

	remaining := make([]*domain.Character, len(pool))
	copy(remaining, pool)

	picked := make([]*domain.Character, 0, count)
	for len(picked) < count {
		total := 0
		for _, c := range remaining {
			total += c.Rarity.RollWeight()
		}

		x := rng.Float64() * float64(total)
		idx := len(remaining) - 1
		acc := 0.0
		for i, c := range remaining {
			acc += float64(c.Rarity.RollWeight())
			if x < acc {
				idx = i
				break
			}
		}

		picked = append(picked, remaining[idx])
		remaining[idx] = remaining[len(remaining)-1]
		remaining = remaining[:len(remaining)-1]
	}
	return picked
}
