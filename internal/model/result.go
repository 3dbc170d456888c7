package model

// Confidence labels how decisive a classification is.
type Confidence string

const (
	ConfidenceHigh     Confidence = "high"
	ConfidenceModerate Confidence = "moderate"
	ConfidenceLow      Confidence = "low"
)

// Band is the three-level bucket assigned to an axis average.
type Band string

const (
	BandLow      Band = "low"
	BandModerate Band = "moderate"
	BandHigh     Band = "high"
)

// Level is the v2 primary classification, 1 (steady) through 4 (acute).
type Level int

// Modifier is a secondary, non-exclusive label on a v2 classification.
type Modifier string

const (
	ModifierNone               Modifier = ""
	ModifierHighResponsiveness Modifier = "high_responsiveness"
	ModifierPoorRecovery       Modifier = "poor_recovery"
	ModifierNarrowBuffer       Modifier = "narrow_buffer"
)

// ResultV1 is the outcome of the weighted-sum engine.
type ResultV1 struct {
	ScoreMap           map[ClassID]float64 `json:"scoreMap" bson:"scoreMap"`
	NormalizedScoreMap map[ClassID]float64 `json:"normalizedScoreMap" bson:"normalizedScoreMap"`
	PrimaryClass       ClassID             `json:"primaryClass" bson:"primaryClass"`
	SecondaryClass     ClassID             `json:"secondaryClass,omitempty" bson:"secondaryClass,omitempty"`
	Gap                float64             `json:"gap" bson:"gap"`
	Confidence         Confidence          `json:"confidence" bson:"confidence"`
}

// ResultV2 is the outcome of the axis decision-tree engine. AxisBands and
// AxisAverages are diagnostic, exposed so a result page can explain itself.
type ResultV2 struct {
	PrimaryLevel      Level            `json:"primaryLevel" bson:"primaryLevel"`
	SecondaryModifier Modifier         `json:"secondaryModifier,omitempty" bson:"secondaryModifier,omitempty"`
	Confidence        Confidence       `json:"confidence" bson:"confidence"`
	AxisBands         map[Axis]Band    `json:"axisBands" bson:"axisBands"`
	AxisAverages      map[Axis]float64 `json:"axisAverages" bson:"axisAverages"`
}

// ScoringResult is the version-tagged union of the two engine outcomes.
// Exactly one of V1/V2 is set, matching Version.
type ScoringResult struct {
	Version CatalogVersion `json:"version" bson:"version"`
	V1      *ResultV1      `json:"v1,omitempty" bson:"v1,omitempty"`
	V2      *ResultV2      `json:"v2,omitempty" bson:"v2,omitempty"`
}
