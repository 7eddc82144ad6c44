package oncology

// Bundle is the set of records generated for one indication and written by one import.
type Bundle struct {
	Indication         Indication           `json:"indication"`
	Genes              []Gene               `json:"genes"`
	Mutations          []Mutation           `json:"mutations"`
	Therapies          []Therapy            `json:"therapies"`
	Diagnostics        []DiagnosticModality `json:"diagnostics"`
	Epidemiology       []EpidemiologyMetric `json:"epidemiology"`
	MutationPrevalence []MutationPrevalence `json:"mutation_prevalence"`
	Actionability      []Actionability      `json:"actionability"`
}
