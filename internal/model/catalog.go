package model

// CatalogVersion tags which scoring scheme a catalog carries.
type CatalogVersion string

const (
	CatalogVersionV1 CatalogVersion = "v1"
	CatalogVersionV2 CatalogVersion = "v2"
)

// ClassID identifies a v1 classification class.
type ClassID string

// Axis is one of the five latent dimensions of the v2 scheme.
type Axis string

const (
	AxisCapacity       Axis = "capacity"
	AxisBuffer         Axis = "buffer"
	AxisResponsiveness Axis = "responsiveness"
	AxisRecovery       Axis = "recovery"
	AxisProtection     Axis = "protection"
)

// Axes lists the v2 axes in canonical order.
var Axes = []Axis{AxisCapacity, AxisBuffer, AxisResponsiveness, AxisRecovery, AxisProtection}

// Catalog is the union over CatalogV1 and CatalogV2. The flow machine only
// needs ordered question identity and option validity; the scoring engines
// work on the concrete types, selected by an exhaustive type switch. The
// interface is sealed so no third implementation can sneak past that switch.
type Catalog interface {
	Version() CatalogVersion
	AssessmentType() string
	NumQuestions() int
	QuestionIDAt(i int) string
	HasOption(questionID, optionID string) bool

	sealedCatalog()
}

// OptionV1 carries per-class weights for the weighted-sum scheme.
type OptionV1 struct {
	ID      string              `json:"id" bson:"id"`
	Label   string              `json:"label" bson:"label"`
	Weights map[ClassID]float64 `json:"scoreWeights" bson:"scoreWeights"`
}

// QuestionV1 is a single-choice question in a v1 catalog.
type QuestionV1 struct {
	ID      string     `json:"id" bson:"id"`
	Text    string     `json:"text" bson:"text"`
	Options []OptionV1 `json:"options" bson:"options"`
}

// ThresholdsV1 configures the v1 gap cutoffs. Zero values mean "use the
// documented defaults".
type ThresholdsV1 struct {
	SecondaryGap     float64 `json:"secondaryGap" bson:"secondaryGap"`
	HighConfidence   float64 `json:"highConfidence" bson:"highConfidence"`
	MediumConfidence float64 `json:"mediumConfidence" bson:"mediumConfidence"`
}

// DefaultThresholdsV1 returns the documented v1 defaults.
func DefaultThresholdsV1() ThresholdsV1 {
	return ThresholdsV1{
		SecondaryGap:     0.15,
		HighConfidence:   0.30,
		MediumConfidence: 0.15,
	}
}

// CatalogV1 is a weighted-sum catalog. Classes are listed in declaration
// order; that order is the tie-break contract for primary-class selection.
type CatalogV1 struct {
	Type       string       `json:"assessmentType" bson:"assessmentType"`
	Classes    []ClassID    `json:"classes" bson:"classes"`
	Questions  []QuestionV1 `json:"questions" bson:"questions"`
	Thresholds ThresholdsV1 `json:"thresholds" bson:"thresholds"`
}

func (c *CatalogV1) Version() CatalogVersion { return CatalogVersionV1 }
func (c *CatalogV1) AssessmentType() string  { return c.Type }
func (c *CatalogV1) NumQuestions() int       { return len(c.Questions) }

func (c *CatalogV1) QuestionIDAt(i int) string {
	if i < 0 || i >= len(c.Questions) {
		return ""
	}
	return c.Questions[i].ID
}

func (c *CatalogV1) HasOption(questionID, optionID string) bool {
	for _, q := range c.Questions {
		if q.ID != questionID {
			continue
		}
		for _, o := range q.Options {
			if o.ID == optionID {
				return true
			}
		}
		return false
	}
	return false
}

func (c *CatalogV1) sealedCatalog() {}

// OptionV2 carries a single 0-3 value for the axis scheme.
type OptionV2 struct {
	ID    string `json:"id" bson:"id"`
	Label string `json:"label" bson:"label"`
	Value int    `json:"value" bson:"value"`
}

// QuestionV2 is a single-choice question in a v2 catalog. Integration
// questions contribute to no axis and feed only the confidence measure.
// Reverse questions have inverted polarity and are normalized by the engine.
type QuestionV2 struct {
	ID            string     `json:"id" bson:"id"`
	Text          string     `json:"text" bson:"text"`
	Options       []OptionV2 `json:"options" bson:"options"`
	Axis          Axis       `json:"axis,omitempty" bson:"axis,omitempty"`
	SecondaryAxis Axis       `json:"secondaryAxis,omitempty" bson:"secondaryAxis,omitempty"`
	Reverse       bool       `json:"reverse,omitempty" bson:"reverse,omitempty"`
	Integration   bool       `json:"integration,omitempty" bson:"integration,omitempty"`
}

// ThresholdsV2 configures the axis band cutoffs on the 0-3 scale.
type ThresholdsV2 struct {
	BandHigh     float64 `json:"axisBandHigh" bson:"axisBandHigh"`
	BandModerate float64 `json:"axisBandModerate" bson:"axisBandModerate"`
}

// DefaultThresholdsV2 returns the documented v2 defaults.
func DefaultThresholdsV2() ThresholdsV2 {
	return ThresholdsV2{
		BandHigh:     2.3,
		BandModerate: 1.3,
	}
}

// CatalogV2 is an axis decision-tree catalog.
type CatalogV2 struct {
	Type       string       `json:"assessmentType" bson:"assessmentType"`
	Questions  []QuestionV2 `json:"questions" bson:"questions"`
	Thresholds ThresholdsV2 `json:"thresholds" bson:"thresholds"`
}

func (c *CatalogV2) Version() CatalogVersion { return CatalogVersionV2 }
func (c *CatalogV2) AssessmentType() string  { return c.Type }
func (c *CatalogV2) NumQuestions() int       { return len(c.Questions) }

func (c *CatalogV2) QuestionIDAt(i int) string {
	if i < 0 || i >= len(c.Questions) {
		return ""
	}
	return c.Questions[i].ID
}

func (c *CatalogV2) HasOption(questionID, optionID string) bool {
	for _, q := range c.Questions {
		if q.ID != questionID {
			continue
		}
		for _, o := range q.Options {
			if o.ID == optionID {
				return true
			}
		}
		return false
	}
	return false
}

func (c *CatalogV2) sealedCatalog() {}
