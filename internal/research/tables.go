package research

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/oncograph-backend/internal/domain/oncology"
)

type metricSet struct {
	Prevalence          *float64 `yaml:"prevalence"`
	Incidence           *float64 `yaml:"incidence"`
	FiveYearSurvival    *float64 `yaml:"five_year_survival"`
	MedianSurvivalYears *float64 `yaml:"median_survival_years"`
}

type epidemiologyTable struct {
	USA  metricSet  `yaml:"usa"`
	EU   *metricSet `yaml:"eu"`
	APAC *metricSet `yaml:"apac"`
}

type mutationRow struct {
	Name         string  `yaml:"name"`
	Gene         string  `yaml:"gene"`
	GeneName     string  `yaml:"gene_name"`
	Alteration   string  `yaml:"alteration"`
	Oncogenicity string  `yaml:"oncogenicity"`
	Percentage   float64 `yaml:"percentage"`
}

type therapyRow struct {
	Name        string   `yaml:"name"`
	Synonyms    []string `yaml:"synonyms"`
	Mechanism   string   `yaml:"mechanism"`
	Status      string   `yaml:"status"`
	AnnualCost  *float64 `yaml:"annual_cost"`
	TargetGenes []string `yaml:"target_genes"`
}

type diagnosticRow struct {
	Name         string `yaml:"name"`
	ModalityType string `yaml:"modality_type"`
	Invasiveness string `yaml:"invasiveness"`
}

type actionabilityRow struct {
	Mutation    string   `yaml:"mutation"`
	Level       string   `yaml:"level"`
	Evidence    string   `yaml:"evidence"`
	Drugs       []string `yaml:"drugs"`
	FDAApproved bool     `yaml:"fda_approved"`
}

type curatedIndication struct {
	DataYear      int                `yaml:"data_year"`
	Epidemiology  *epidemiologyTable `yaml:"epidemiology"`
	Mutations     []mutationRow      `yaml:"mutations"`
	Therapies     []therapyRow       `yaml:"therapies"`
	Diagnostics   []diagnosticRow    `yaml:"diagnostics"`
	Actionability []actionabilityRow `yaml:"actionability"`
}

type tables struct {
	DataYear    int                          `yaml:"data_year"`
	Generic     curatedIndication            `yaml:"generic"`
	Indications map[string]curatedIndication `yaml:"indications"`
}

func parseTables(raw []byte) (*tables, error) {
	var t tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("research: parse tables: %w", err)
	}
	if t.DataYear <= 0 {
		return nil, fmt.Errorf("research: data_year must be set")
	}
	if t.Generic.Epidemiology == nil || t.Generic.Epidemiology.USA.Prevalence == nil || t.Generic.Epidemiology.USA.Incidence == nil {
		return nil, fmt.Errorf("research: generic USA prevalence and incidence are required")
	}
	if len(t.Generic.Therapies) > 0 || len(t.Generic.Actionability) > 0 {
		return nil, fmt.Errorf("research: generic table must not list therapies or actionability")
	}
	if err := t.Generic.validate("generic"); err != nil {
		return nil, err
	}

	byName := make(map[string]curatedIndication, len(t.Indications))
	for name, row := range t.Indications {
		if err := row.validate(name); err != nil {
			return nil, err
		}
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := byName[key]; dup {
			return nil, fmt.Errorf("research: %q listed twice", name)
		}
		byName[key] = row
	}
	t.Indications = byName
	return &t, nil
}

func (c curatedIndication) validate(name string) error {
	if c.Epidemiology != nil {
		sets := []*metricSet{&c.Epidemiology.USA, c.Epidemiology.EU, c.Epidemiology.APAC}
		for _, s := range sets {
			if s == nil {
				continue
			}
			for _, v := range []*float64{s.Prevalence, s.Incidence, s.MedianSurvivalYears} {
				if v != nil && *v < 0 {
					return fmt.Errorf("research: %s: negative epidemiology value", name)
				}
			}
			if s.FiveYearSurvival != nil && !oncology.ValidPercentage(*s.FiveYearSurvival) {
				return fmt.Errorf("research: %s: five-year survival %.2f outside [0,100]", name, *s.FiveYearSurvival)
			}
		}
	}

	mutations := make(map[string]struct{}, len(c.Mutations))
	for _, m := range c.Mutations {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Gene) == "" {
			return fmt.Errorf("research: %s: mutation rows need a name and a gene", name)
		}
		if !oncology.ValidPercentage(m.Percentage) {
			return fmt.Errorf("research: %s: %s percentage %.2f outside [0,100]", name, m.Name, m.Percentage)
		}
		mutations[strings.ToLower(m.Name)] = struct{}{}
	}
	for _, th := range c.Therapies {
		if strings.TrimSpace(th.Name) == "" {
			return fmt.Errorf("research: %s: therapy without a name", name)
		}
	}
	for _, d := range c.Diagnostics {
		if strings.TrimSpace(d.Name) == "" {
			return fmt.Errorf("research: %s: diagnostic without a name", name)
		}
	}
	for _, a := range c.Actionability {
		if _, ok := mutations[strings.ToLower(a.Mutation)]; !ok {
			return fmt.Errorf("research: %s: actionability references unknown mutation %q", name, a.Mutation)
		}
	}
	return nil
}
