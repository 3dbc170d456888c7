package scoring

import "pulsecheck/internal/model"

// maxOptionValue is the top of the v2 answer scale.
const maxOptionValue = 3

// secondaryAxisWeight is the contribution of a question to its optional
// secondary axis.
const secondaryAxisWeight = 0.5

// normalizeValue aligns polarity so a higher normalized value always means
// more strain on the axis, regardless of how the question was phrased.
func normalizeValue(value int, reverse bool) int {
	if reverse {
		return maxOptionValue - value
	}
	return value
}

// ScoreV2 runs the axis decision-tree scheme: per-axis weighted averages,
// banding, a fixed-priority level tree, a modifier chain, and a confidence
// label derived from the two integration questions' self-consistency.
func ScoreV2(answers []model.Answer, cat *model.CatalogV2) *model.ResultV2 {
	th := cat.Thresholds
	if th == (model.ThresholdsV2{}) {
		th = model.DefaultThresholdsV2()
	}

	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.OptionID
	}

	totals := make(map[model.Axis]float64, len(model.Axes))
	counts := make(map[model.Axis]float64, len(model.Axes))
	var integration []int

	for _, q := range cat.Questions {
		value := 0 // missing answer counts as zero rather than failing
		if optID, ok := selected[q.ID]; ok {
			for _, o := range q.Options {
				if o.ID == optID {
					value = o.Value
					break
				}
			}
		}

		if q.Integration {
			// Confidence uses the raw value; polarity is irrelevant here.
			integration = append(integration, value)
			continue
		}

		n := float64(normalizeValue(value, q.Reverse))
		if q.Axis != "" {
			totals[q.Axis] += n
			counts[q.Axis] += 1.0
		}
		if q.SecondaryAxis != "" {
			totals[q.SecondaryAxis] += n * secondaryAxisWeight
			counts[q.SecondaryAxis] += secondaryAxisWeight
		}
	}

	averages := make(map[model.Axis]float64, len(model.Axes))
	bands := make(map[model.Axis]model.Band, len(model.Axes))
	for _, ax := range model.Axes {
		avg := 0.0
		if counts[ax] > 0 {
			avg = totals[ax] / counts[ax]
		}
		averages[ax] = avg
		bands[ax] = bandFor(avg, th)
	}

	return &model.ResultV2{
		PrimaryLevel:      decideLevel(bands),
		SecondaryModifier: decideModifier(bands),
		Confidence:        integrationConfidence(integration),
		AxisBands:         bands,
		AxisAverages:      averages,
	}
}

func bandFor(avg float64, th model.ThresholdsV2) model.Band {
	switch {
	case avg >= th.BandHigh:
		return model.BandHigh
	case avg >= th.BandModerate:
		return model.BandModerate
	default:
		return model.BandLow
	}
}

// decideLevel evaluates the rules top to bottom; the ordering is
// load-bearing and first match wins.
func decideLevel(b map[model.Axis]model.Band) model.Level {
	switch {
	case b[model.AxisProtection] == model.BandHigh &&
		(b[model.AxisCapacity] == model.BandLow || b[model.AxisBuffer] == model.BandLow):
		return 4
	case b[model.AxisCapacity] == model.BandLow &&
		b[model.AxisProtection] != model.BandHigh &&
		(b[model.AxisBuffer] == model.BandLow || b[model.AxisRecovery] == model.BandLow):
		return 3
	case b[model.AxisCapacity] == model.BandModerate &&
		b[model.AxisBuffer] == model.BandLow &&
		b[model.AxisResponsiveness] == model.BandHigh &&
		b[model.AxisRecovery] != model.BandLow:
		return 2
	case b[model.AxisCapacity] != model.BandLow &&
		b[model.AxisBuffer] != model.BandLow &&
		b[model.AxisRecovery] != model.BandLow &&
		b[model.AxisProtection] != model.BandHigh:
		return 1
	default:
		// Conservative fallback: no axis combination escapes classification.
		return 3
	}
}

// decideModifier is independent of the level; first match wins.
func decideModifier(b map[model.Axis]model.Band) model.Modifier {
	switch {
	case b[model.AxisResponsiveness] == model.BandHigh:
		return model.ModifierHighResponsiveness
	case b[model.AxisRecovery] == model.BandLow:
		return model.ModifierPoorRecovery
	case b[model.AxisBuffer] == model.BandLow:
		return model.ModifierNarrowBuffer
	default:
		return model.ModifierNone
	}
}

// integrationConfidence measures self-consistency between the two
// integration questions on the raw 0-3 scale. A catalog without exactly two
// integration questions cannot measure it, so the weakest claim is reported.
func integrationConfidence(values []int) model.Confidence {
	if len(values) != 2 {
		return model.ConfidenceLow
	}
	variance := values[0] - values[1]
	if variance < 0 {
		variance = -variance
	}
	switch variance {
	case 0:
		return model.ConfidenceHigh
	case 1:
		return model.ConfidenceModerate
	default:
		return model.ConfidenceLow
	}
}
