package inventory

import "testing"

func TestClassifyOS(t *testing.T) {
	cases := map[string]Family{
		"Purity//FA":    FamilyFlashArray,
		"Purity//FB":    FamilyFlashBlade,
		"Purity 6.1 FA": FamilyFlashArray,
		"ONTAP":         FamilyUnclassified,
		"":              FamilyUnclassified,
	}
	for os, want := range cases {
		if got := ClassifyOS(os); got != want {
			t.Fatalf("ClassifyOS(%q)=%s want %s", os, got, want)
		}
	}
}

func TestFamilyGroup(t *testing.T) {
	if got := FamilyFlashArray.Group(); got != GroupFlashArray {
		t.Fatalf("FlashArray group = %q", got)
	}
	if got := FamilyFlashBlade.Group(); got != GroupFlashBlade {
		t.Fatalf("FlashBlade group = %q", got)
	}
	if got := FamilyUnclassified.Group(); got != "" {
		t.Fatalf("Unclassified group = %q", got)
	}
}

func TestFamilySetAddress(t *testing.T) {
	var vars HostVars
	FamilyFlashArray.setAddress(&vars, "10.0.0.5")
	if vars.FAURL != "10.0.0.5" || vars.FBURL != "" {
		t.Fatalf("FlashArray address landed wrong: %+v", vars)
	}
	vars = HostVars{}
	FamilyFlashBlade.setAddress(&vars, "10.0.0.6")
	if vars.FBURL != "10.0.0.6" || vars.FAURL != "" {
		t.Fatalf("FlashBlade address landed wrong: %+v", vars)
	}
}
