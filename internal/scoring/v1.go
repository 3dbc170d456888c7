// Package scoring implements the deterministic classification engines.
// Both engines are pure functions of (answers, catalog): identical inputs
// always yield identical outputs, with no dependency on clock, randomness,
// or call order.
package scoring

import "pulsecheck/internal/model"

// ScoreV1 runs the weighted-sum scheme: per-class sums over the selected
// options' weights, normalized against the best achievable score per class,
// with primary/secondary selection and a gap-based confidence label.
//
// Ties on the normalized score resolve to the class declared earlier in the
// catalog. That is a fixed contract, not an iteration accident.
func ScoreV1(answers []model.Answer, cat *model.CatalogV1) *model.ResultV1 {
	th := cat.Thresholds
	if th == (model.ThresholdsV1{}) {
		th = model.DefaultThresholdsV1()
	}

	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.OptionID
	}

	scores := make(map[model.ClassID]float64, len(cat.Classes))
	maxPossible := make(map[model.ClassID]float64, len(cat.Classes))
	for _, c := range cat.Classes {
		scores[c] = 0
		maxPossible[c] = 0
	}

	for _, q := range cat.Questions {
		// Max possible comes from the catalog alone, never from the answers.
		for _, c := range cat.Classes {
			best := 0.0
			for _, o := range q.Options {
				if w := o.Weights[c]; w > best {
					best = w
				}
			}
			maxPossible[c] += best
		}

		optID, ok := selected[q.ID]
		if !ok {
			continue // missing answer contributes zero
		}
		for _, o := range q.Options {
			if o.ID != optID {
				continue
			}
			for _, c := range cat.Classes {
				scores[c] += o.Weights[c]
			}
			break
		}
	}

	normalized := make(map[model.ClassID]float64, len(cat.Classes))
	for _, c := range cat.Classes {
		if maxPossible[c] > 0 {
			normalized[c] = scores[c] / maxPossible[c]
		} else {
			normalized[c] = 0
		}
	}

	// Primary: strictly-greater comparison over declaration order keeps the
	// first-declared class on ties.
	var primary model.ClassID
	for i, c := range cat.Classes {
		if i == 0 || normalized[c] > normalized[primary] {
			primary = c
		}
	}

	var secondBest model.ClassID
	haveSecond := false
	for _, c := range cat.Classes {
		if c == primary {
			continue
		}
		if !haveSecond || normalized[c] > normalized[secondBest] {
			secondBest = c
			haveSecond = true
		}
	}

	gap := normalized[primary]
	if haveSecond {
		gap = normalized[primary] - normalized[secondBest]
	}

	res := &model.ResultV1{
		ScoreMap:           scores,
		NormalizedScoreMap: normalized,
		PrimaryClass:       primary,
		Gap:                gap,
	}
	if haveSecond && gap <= th.SecondaryGap {
		res.SecondaryClass = secondBest
	}

	switch {
	case gap >= th.HighConfidence:
		res.Confidence = model.ConfidenceHigh
	case gap >= th.MediumConfidence:
		res.Confidence = model.ConfidenceModerate
	default:
		res.Confidence = model.ConfidenceLow
	}
	return res
}
