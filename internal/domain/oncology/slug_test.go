package oncology

import "testing"

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Non-Small Cell Lung Cancer": "non_small_cell_lung_cancer",
		"  Breast Cancer  ":          "breast_cancer",
		"EGFR L858R":                 "egfr_l858r",
		"BCR-ABL1 (p210)":            "bcr_abl1_p210",
		"--Osimertinib--":            "osimertinib",
		"":                           "",
		"***":                        "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q): got=%q want=%q", in, got, want)
		}
	}
}
