package oncology

// MetricType enumerates the epidemiology statistics tracked per indication and region.
type MetricType string

const (
	MetricPrevalence          MetricType = "PREVALENCE"
	MetricIncidence           MetricType = "INCIDENCE"
	MetricFiveYearSurvival    MetricType = "FIVE_YEAR_SURVIVAL"
	MetricMedianSurvivalYears MetricType = "MEDIAN_SURVIVAL_YEARS"
)

func (t MetricType) Valid() bool {
	switch t {
	case MetricPrevalence, MetricIncidence, MetricFiveYearSurvival, MetricMedianSurvivalYears:
		return true
	default:
		return false
	}
}

const (
	RegionUSA    = "USA"
	RegionEU     = "EU"
	RegionAPAC   = "APAC"
	RegionGlobal = "GLOBAL"
)

// DefaultRegions is the region set used when a caller does not ask for any.
func DefaultRegions() []string {
	return []string{RegionUSA, RegionEU, RegionAPAC}
}

type Indication struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Aliases            []string `json:"aliases"`
	ClassificationCode string   `json:"classification_code,omitempty"`
	Source             string   `json:"source,omitempty"`
}

type Gene struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

type Mutation struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GeneSymbol   string `json:"gene_symbol"`
	Alteration   string `json:"alteration,omitempty"`
	Oncogenicity string `json:"oncogenicity,omitempty"`
	Source       string `json:"source,omitempty"`
}

type Region struct {
	Name string `json:"name"`
}

// EpidemiologyMetric is an append-only fact attached to one indication and one region.
type EpidemiologyMetric struct {
	ID           string     `json:"id"`
	IndicationID string     `json:"indication_id"`
	Region       string     `json:"region"`
	Type         MetricType `json:"type"`
	Value        float64    `json:"value"`
	Unit         string     `json:"unit,omitempty"`
	Year         int        `json:"year,omitempty"`
	Source       string     `json:"source,omitempty"`
}

// MutationPrevalence records the share (0-100) of an indication's patients carrying a mutation.
type MutationPrevalence struct {
	ID           string  `json:"id"`
	MutationID   string  `json:"mutation_id"`
	IndicationID string  `json:"indication_id"`
	Region       string  `json:"region"`
	Percentage   float64 `json:"percentage"`
	Year         int     `json:"year,omitempty"`
	Source       string  `json:"source,omitempty"`
}

type Therapy struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Synonyms    []string `json:"synonyms,omitempty"`
	Mechanism   string   `json:"mechanism,omitempty"`
	Status      string   `json:"status,omitempty"`
	AnnualCost  *float64 `json:"annual_cost,omitempty"`
	TargetGenes []string `json:"target_genes,omitempty"`
	// Synthetic marks a placeholder built from an actionability drug name with no curated record yet.
	Synthetic bool `json:"synthetic,omitempty"`
}

type DiagnosticModality struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ModalityType string `json:"modality_type,omitempty"`
	Invasiveness string `json:"invasiveness,omitempty"`
}

// Actionability links a mutation to clinical evidence, optionally scoped to one indication.
type Actionability struct {
	ID           string   `json:"id"`
	MutationID   string   `json:"mutation_id"`
	IndicationID string   `json:"indication_id,omitempty"`
	Level        string   `json:"level"`
	Evidence     string   `json:"evidence,omitempty"`
	Drugs        []string `json:"drugs,omitempty"`
	FDAApproved  bool     `json:"fda_approved"`
}

// ValidPercentage reports whether p is a usable percentage-of-patients value.
func ValidPercentage(p float64) bool {
	return p >= 0 && p <= 100
}
