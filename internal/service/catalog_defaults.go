package service

import "pulsecheck/internal/model"

// Built-in assessment types served when the catalog store has nothing for
// the requested version.
const (
	DefaultTypeV1 = "archetype"
	DefaultTypeV2 = "resilience"
)

// DefaultFor returns the deterministic built-in catalog for a scoring
// version. It is a pure function: same version in, same catalog out, so a
// store outage can never change what a participant is asked.
func DefaultFor(version model.CatalogVersion) model.Catalog {
	if version == model.CatalogVersionV2 {
		return defaultCatalogV2()
	}
	return defaultCatalogV1()
}

// defaultCatalogV1 is the built-in archetype questionnaire: three classes,
// six questions, per-option per-class weights. Class declaration order is
// the tie-break order.
func defaultCatalogV1() *model.CatalogV1 {
	const (
		builder    model.ClassID = "builder"
		strategist model.ClassID = "strategist"
		connector  model.ClassID = "connector"
	)

	w := func(b, s, c float64) map[model.ClassID]float64 {
		return map[model.ClassID]float64{builder: b, strategist: s, connector: c}
	}

	return &model.CatalogV1{
		Type:       DefaultTypeV1,
		Classes:    []model.ClassID{builder, strategist, connector},
		Thresholds: model.DefaultThresholdsV1(),
		Questions: []model.QuestionV1{
			{
				ID:   "v1-q1",
				Text: "A new project lands on your desk. What do you do first?",
				Options: []model.OptionV1{
					{ID: "a", Label: "Start prototyping something tangible", Weights: w(2, 0, 0)},
					{ID: "b", Label: "Map out the risks and the plan", Weights: w(0, 2, 0)},
					{ID: "c", Label: "Find out who else should be involved", Weights: w(0, 0, 2)},
				},
			},
			{
				ID:   "v1-q2",
				Text: "Which compliment lands best for you?",
				Options: []model.OptionV1{
					{ID: "a", Label: "\"You ship things that work\"", Weights: w(2, 1, 0)},
					{ID: "b", Label: "\"You saw that coming before anyone\"", Weights: w(0, 2, 1)},
					{ID: "c", Label: "\"The team works because of you\"", Weights: w(1, 0, 2)},
				},
			},
			{
				ID:   "v1-q3",
				Text: "A plan falls apart mid-week. Your instinct?",
				Options: []model.OptionV1{
					{ID: "a", Label: "Patch what is broken and keep moving", Weights: w(2, 0, 1)},
					{ID: "b", Label: "Step back and redesign the approach", Weights: w(0, 2, 0)},
					{ID: "c", Label: "Get everyone in a room to regroup", Weights: w(0, 1, 2)},
				},
			},
			{
				ID:   "v1-q4",
				Text: "What drains you the most?",
				Options: []model.OptionV1{
					{ID: "a", Label: "Meetings with nothing to build", Weights: w(2, 0, 0)},
					{ID: "b", Label: "Decisions made without the full picture", Weights: w(0, 2, 0)},
					{ID: "c", Label: "Working a whole day without talking to anyone", Weights: w(0, 0, 2)},
				},
			},
			{
				ID:   "v1-q5",
				Text: "Your ideal measure of a good month?",
				Options: []model.OptionV1{
					{ID: "a", Label: "Concrete things finished and in use", Weights: w(2, 1, 0)},
					{ID: "b", Label: "A clearer long-term direction", Weights: w(1, 2, 0)},
					{ID: "c", Label: "Stronger relationships across the team", Weights: w(0, 0, 2)},
				},
			},
			{
				ID:   "v1-q6",
				Text: "When you learn something new, you prefer to…",
				Options: []model.OptionV1{
					{ID: "a", Label: "Try it hands-on immediately", Weights: w(2, 0, 0)},
					{ID: "b", Label: "Understand the theory first", Weights: w(0, 2, 0)},
					{ID: "c", Label: "Discuss it with someone who knows it", Weights: w(0, 1, 2)},
				},
			},
		},
	}
}

// defaultCatalogV2 is the built-in resilience questionnaire: two questions
// per axis plus two integration questions, all answered on a 0-3 scale.
// Positively phrased items are marked reverse so the engine flips them into
// strain polarity.
func defaultCatalogV2() *model.CatalogV2 {
	scale := func(l0, l1, l2, l3 string) []model.OptionV2 {
		return []model.OptionV2{
			{ID: "0", Label: l0, Value: 0},
			{ID: "1", Label: l1, Value: 1},
			{ID: "2", Label: l2, Value: 2},
			{ID: "3", Label: l3, Value: 3},
		}
	}
	frequency := scale("Never", "Occasionally", "Often", "Almost always")
	agreement := scale("Strongly disagree", "Disagree", "Agree", "Strongly agree")

	return &model.CatalogV2{
		Type:       DefaultTypeV2,
		Thresholds: model.DefaultThresholdsV2(),
		Questions: []model.QuestionV2{
			{
				ID: "v2-q1", Axis: model.AxisCapacity,
				Text:    "My workload exceeds what I can realistically handle.",
				Options: frequency,
			},
			{
				ID: "v2-q2", Axis: model.AxisCapacity, Reverse: true,
				Text:    "I end most days with energy left over.",
				Options: agreement,
			},
			{
				ID: "v2-q3", Axis: model.AxisBuffer,
				Text:    "One unexpected demand is enough to derail my week.",
				Options: frequency,
			},
			{
				ID: "v2-q4", Axis: model.AxisBuffer, SecondaryAxis: model.AxisCapacity, Reverse: true,
				Text:    "I keep slack in my schedule for things that come up.",
				Options: agreement,
			},
			{
				ID: "v2-q5", Axis: model.AxisResponsiveness,
				Text:    "Small problems trigger a bigger reaction in me than they should.",
				Options: frequency,
			},
			{
				ID: "v2-q6", Axis: model.AxisResponsiveness,
				Text:    "I stay keyed-up long after a stressful moment has passed.",
				Options: frequency,
			},
			{
				ID: "v2-q7", Axis: model.AxisRecovery, Reverse: true,
				Text:    "A night's sleep resets me completely.",
				Options: agreement,
			},
			{
				ID: "v2-q8", Axis: model.AxisRecovery, SecondaryAxis: model.AxisBuffer, Reverse: true,
				Text:    "My weekends genuinely restore me.",
				Options: agreement,
			},
			{
				ID: "v2-q9", Axis: model.AxisProtection,
				Text:    "I avoid commitments because I doubt I could absorb them.",
				Options: frequency,
			},
			{
				ID: "v2-q10", Axis: model.AxisProtection,
				Text:    "I have started declining things I used to enjoy, to stay afloat.",
				Options: frequency,
			},
			{
				ID: "v2-q11", Integration: true,
				Text:    "Overall, how strained do you feel right now?",
				Options: scale("Not at all", "Slightly", "Considerably", "Severely"),
			},
			{
				ID: "v2-q12", Integration: true,
				Text:    "How strained would the people closest to you say you are?",
				Options: scale("Not at all", "Slightly", "Considerably", "Severely"),
			},
		},
	}
}
