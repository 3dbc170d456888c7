package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecheck/internal/model"
)

func scaleOptions() []model.OptionV2 {
	return []model.OptionV2{
		{ID: "0", Value: 0},
		{ID: "1", Value: 1},
		{ID: "2", Value: 2},
		{ID: "3", Value: 3},
	}
}

// axisCatalog has two questions per axis plus two integration questions,
// all on the 0-3 scale, none reversed.
func axisCatalog() *model.CatalogV2 {
	q := func(id string, axis model.Axis) model.QuestionV2 {
		return model.QuestionV2{ID: id, Axis: axis, Options: scaleOptions()}
	}
	return &model.CatalogV2{
		Type:       "resilience",
		Thresholds: model.DefaultThresholdsV2(),
		Questions: []model.QuestionV2{
			q("cap1", model.AxisCapacity), q("cap2", model.AxisCapacity),
			q("buf1", model.AxisBuffer), q("buf2", model.AxisBuffer),
			q("res1", model.AxisResponsiveness), q("res2", model.AxisResponsiveness),
			q("rec1", model.AxisRecovery), q("rec2", model.AxisRecovery),
			q("pro1", model.AxisProtection), q("pro2", model.AxisProtection),
			{ID: "int1", Integration: true, Options: scaleOptions()},
			{ID: "int2", Integration: true, Options: scaleOptions()},
		},
	}
}

func pick(selections map[string]string) []model.Answer {
	answers := make([]model.Answer, 0, len(selections))
	// Fixed order keeps failures readable; scoring is order-independent.
	for _, id := range []string{"cap1", "cap2", "buf1", "buf2", "res1", "res2", "rec1", "rec2", "pro1", "pro2", "int1", "int2"} {
		if opt, ok := selections[id]; ok {
			answers = append(answers, model.Answer{QuestionID: id, OptionID: opt})
		}
	}
	return answers
}

func TestNormalizeValueReversesPolarity(t *testing.T) {
	assert.Equal(t, 0, normalizeValue(0, false))
	assert.Equal(t, 3, normalizeValue(3, false))
	assert.Equal(t, 3, normalizeValue(0, true))
	assert.Equal(t, 0, normalizeValue(3, true))
	assert.Equal(t, 2, normalizeValue(1, true))
	assert.Equal(t, 1, normalizeValue(2, true))
}

func TestBandFor(t *testing.T) {
	th := model.DefaultThresholdsV2()
	assert.Equal(t, model.BandLow, bandFor(0, th))
	assert.Equal(t, model.BandLow, bandFor(1.29, th))
	assert.Equal(t, model.BandModerate, bandFor(1.3, th))
	assert.Equal(t, model.BandModerate, bandFor(2.29, th))
	assert.Equal(t, model.BandHigh, bandFor(2.3, th))
	assert.Equal(t, model.BandHigh, bandFor(3, th))
}

func TestScoreV2StrainedButResponsive(t *testing.T) {
	cat := axisCatalog()
	answers := pick(map[string]string{
		"cap1": "1", "cap2": "1", // capacity 1.0 → low
		"buf1": "0", "buf2": "1", // buffer 0.5 → low
		"res1": "2", "res2": "3", // responsiveness 2.5 → high
		"rec1": "1", "rec2": "2", // recovery 1.5 → moderate
		"pro1": "1", "pro2": "1", // protection 1.0 → low
		"int1": "2", "int2": "2",
	})

	res := ScoreV2(answers, cat)

	assert.Equal(t, model.Level(3), res.PrimaryLevel)
	assert.Equal(t, model.ModifierHighResponsiveness, res.SecondaryModifier)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence)
	assert.Equal(t, model.BandLow, res.AxisBands[model.AxisCapacity])
	assert.Equal(t, model.BandHigh, res.AxisBands[model.AxisResponsiveness])
	assert.InDelta(t, 2.5, res.AxisAverages[model.AxisResponsiveness], 1e-9)
}

func TestScoreV2ReverseQuestion(t *testing.T) {
	cat := axisCatalog()
	cat.Questions[1].Reverse = true // cap2

	// cap1 answered 1, cap2 answered 3 → reversed to 0 → capacity avg 0.5.
	answers := pick(map[string]string{
		"cap1": "1", "cap2": "3",
	})

	res := ScoreV2(answers, cat)

	assert.InDelta(t, 0.5, res.AxisAverages[model.AxisCapacity], 1e-9)
}

func TestScoreV2SecondaryAxisHalfWeight(t *testing.T) {
	cat := axisCatalog()
	cat.Questions[2].SecondaryAxis = model.AxisCapacity // buf1

	answers := pick(map[string]string{
		"cap1": "2", "cap2": "2",
		"buf1": "0",
	})

	res := ScoreV2(answers, cat)

	// capacity: (2 + 2 + 0.5*0) / 2.5 = 1.6
	assert.InDelta(t, 1.6, res.AxisAverages[model.AxisCapacity], 1e-9)
	// buffer still averages only its own full-weight question.
	assert.InDelta(t, 0.0, res.AxisAverages[model.AxisBuffer], 1e-9)
}

func TestScoreV2MissingAnswersCountAsZero(t *testing.T) {
	cat := axisCatalog()

	res := ScoreV2(nil, cat)

	require.NotNil(t, res)
	for _, ax := range model.Axes {
		assert.Equal(t, 0.0, res.AxisAverages[ax])
		assert.Equal(t, model.BandLow, res.AxisBands[ax])
	}
	// Every axis low: depleted capacity with no buffer reads as strain.
	assert.Equal(t, model.Level(3), res.PrimaryLevel)
	assert.Equal(t, model.ConfidenceHigh, res.Confidence, "two zero-valued integration answers agree")
}

func TestDecideLevelPriority(t *testing.T) {
	bands := func(cap, buf, res, rec, pro model.Band) map[model.Axis]model.Band {
		return map[model.Axis]model.Band{
			model.AxisCapacity:       cap,
			model.AxisBuffer:         buf,
			model.AxisResponsiveness: res,
			model.AxisRecovery:       rec,
			model.AxisProtection:     pro,
		}
	}

	// Protective shutdown outranks the capacity rule even when both match.
	assert.Equal(t, model.Level(4), decideLevel(bands(
		model.BandLow, model.BandLow, model.BandLow, model.BandLow, model.BandHigh)))

	assert.Equal(t, model.Level(3), decideLevel(bands(
		model.BandLow, model.BandLow, model.BandLow, model.BandModerate, model.BandLow)))

	assert.Equal(t, model.Level(2), decideLevel(bands(
		model.BandModerate, model.BandLow, model.BandHigh, model.BandModerate, model.BandLow)))

	assert.Equal(t, model.Level(1), decideLevel(bands(
		model.BandModerate, model.BandModerate, model.BandLow, model.BandModerate, model.BandLow)))

	// No rule matches: high capacity with depleted buffer and recovery.
	assert.Equal(t, model.Level(3), decideLevel(bands(
		model.BandHigh, model.BandLow, model.BandLow, model.BandLow, model.BandLow)))
}

func TestDecideModifierChain(t *testing.T) {
	bands := map[model.Axis]model.Band{
		model.AxisResponsiveness: model.BandHigh,
		model.AxisRecovery:       model.BandLow,
		model.AxisBuffer:         model.BandLow,
	}
	assert.Equal(t, model.ModifierHighResponsiveness, decideModifier(bands))

	bands[model.AxisResponsiveness] = model.BandModerate
	assert.Equal(t, model.ModifierPoorRecovery, decideModifier(bands))

	bands[model.AxisRecovery] = model.BandModerate
	assert.Equal(t, model.ModifierNarrowBuffer, decideModifier(bands))

	bands[model.AxisBuffer] = model.BandModerate
	assert.Equal(t, model.ModifierNone, decideModifier(bands))
}

func TestIntegrationConfidence(t *testing.T) {
	assert.Equal(t, model.ConfidenceHigh, integrationConfidence([]int{2, 2}))
	assert.Equal(t, model.ConfidenceModerate, integrationConfidence([]int{1, 2}))
	assert.Equal(t, model.ConfidenceModerate, integrationConfidence([]int{3, 2}))
	assert.Equal(t, model.ConfidenceLow, integrationConfidence([]int{0, 2}))
	assert.Equal(t, model.ConfidenceLow, integrationConfidence([]int{1}))
	assert.Equal(t, model.ConfidenceLow, integrationConfidence(nil))
}

func TestScoreV2Deterministic(t *testing.T) {
	cat := axisCatalog()
	answers := pick(map[string]string{
		"cap1": "2", "cap2": "1", "buf1": "3", "buf2": "0",
		"res1": "1", "res2": "2", "rec1": "0", "rec2": "3",
		"pro1": "2", "pro2": "2", "int1": "1", "int2": "3",
	})

	require.Equal(t, ScoreV2(answers, cat), ScoreV2(answers, cat))
}
