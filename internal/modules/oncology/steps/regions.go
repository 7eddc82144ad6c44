package steps

import "github.com/yungbote/oncograph-backend/internal/domain/oncology"

// RegionFilter restricts which (metric, region) edges take part in a sum.
// Region names are matched verbatim; an unknown name simply matches nothing.
type RegionFilter struct {
	names []string
	set   map[string]struct{}
}

// NewRegionFilter builds a filter for regions. A nil slice means the caller did not
// ask for any regions and selects the defaults; a non-nil empty slice selects none.
func NewRegionFilter(regions []string) RegionFilter {
	if regions == nil {
		regions = oncology.DefaultRegions()
	}
	f := RegionFilter{names: make([]string, 0, len(regions)), set: make(map[string]struct{}, len(regions))}
	for _, r := range regions {
		if _, dup := f.set[r]; dup {
			continue
		}
		f.set[r] = struct{}{}
		f.names = append(f.names, r)
	}
	return f
}

func (f RegionFilter) Contains(region string) bool {
	_, ok := f.set[region]
	return ok
}

// Names returns the selected regions in request order, without duplicates.
func (f RegionFilter) Names() []string {
	return append([]string{}, f.names...)
}

func (f RegionFilter) metrics(in []oncology.EpidemiologyMetric) []oncology.EpidemiologyMetric {
	out := make([]oncology.EpidemiologyMetric, 0, len(in))
	for _, m := range in {
		if f.Contains(m.Region) {
			out = append(out, m)
		}
	}
	return out
}
