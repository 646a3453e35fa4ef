// Select stage: adds per-draw noise to weights, then makes a weighted
// random choice. Grounded on original_source/src/systems/action/select.rs.
package action

// NoiseFactor bounds the multiplicative jitter applied to each candidate's
// weight before selection, so the highest-weighted candidate is not always
// chosen deterministically tick after tick.
const NoiseFactor = 0.2

// AddNoise multiplies each candidate's weight by
// 1.0 + (rng.Float64()-0.5)*2*NoiseFactor, floored at zero.
func AddNoise(ctx *Context, weighted []Weighted) []Weighted {
	out := make([]Weighted, len(weighted))
	for i, w := range weighted {
		noise := ctx.Stream.SignedNoise(NoiseFactor, 0)
		out[i] = Weighted{Candidate: w.Candidate, Weight: w.Weight * noise}
	}
	return out
}

// Select performs a weighted random choice over noised candidates. An
// empty or all-zero-weight list falls back to Idle.
func Select(ctx *Context, weighted []Weighted) Candidate {
	noised := AddNoise(ctx, weighted)

	total := 0.0
	for _, w := range noised {
		if w.Weight > 0 {
			total += w.Weight
		}
	}
	if total <= 0 {
		return Candidate{Action: Idle, Rationale: "no viable candidates"}
	}

	roll := ctx.Stream.Float64() * total
	acc := 0.0
	for _, w := range noised {
		if w.Weight <= 0 {
			continue
		}
		acc += w.Weight
		if roll <= acc {
			return w.Candidate
		}
	}
	return noised[len(noised)-1].Candidate
}
