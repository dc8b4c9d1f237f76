package inventory

import "strings"

// Group names for the two hardware families.
const (
	GroupFlashArray = "pure_flasharray"
	GroupFlashBlade = "pure_flashblade"
)

// Family is the hardware family of an array.
type Family int

const (
	// FamilyUnclassified marks arrays matching no known family. They are
	// dropped from the inventory.
	FamilyUnclassified Family = iota
	// FamilyFlashArray is block storage running Purity//FA.
	FamilyFlashArray
	// FamilyFlashBlade is file/object storage running Purity//FB.
	FamilyFlashBlade
)

// ClassifyOS maps an array's reported os string to a family via its
// marker substring. FA is checked first; an os naming both markers counts
// as FlashArray.
func ClassifyOS(os string) Family {
	switch {
	case strings.Contains(os, "FA"):
		return FamilyFlashArray
	case strings.Contains(os, "FB"):
		return FamilyFlashBlade
	default:
		return FamilyUnclassified
	}
}

// Group returns the static inventory group for the family.
func (f Family) Group() string {
	switch f {
	case FamilyFlashArray:
		return GroupFlashArray
	case FamilyFlashBlade:
		return GroupFlashBlade
	default:
		return ""
	}
}

// setAddress stores an address under the family's URL variable.
func (f Family) setAddress(vars *HostVars, address string) {
	switch f {
	case FamilyFlashArray:
		vars.FAURL = address
	case FamilyFlashBlade:
		vars.FBURL = address
	}
}

func (f Family) String() string {
	switch f {
	case FamilyFlashArray:
		return "FlashArray"
	case FamilyFlashBlade:
		return "FlashBlade"
	default:
		return "Unclassified"
	}
}
