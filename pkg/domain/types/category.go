package types

// SessionCategory is the closed category taxonomy for a session.
// Values outside the set normalize to CategoryOther.
type SessionCategory string

const (
	CategoryTripPlanning   SessionCategory = "trip-planning"
	CategoryShopping       SessionCategory = "shopping"
	CategoryJobSearch      SessionCategory = "job-search"
	CategoryResearch       SessionCategory = "research"
	CategoryContentWriting SessionCategory = "content-writing"
	CategoryProductivity   SessionCategory = "productivity"
	CategoryOther          SessionCategory = "other"
)

// Categories lists all valid session categories in display order
func Categories() []SessionCategory {
	return []SessionCategory{
		CategoryTripPlanning,
		CategoryShopping,
		CategoryJobSearch,
		CategoryResearch,
		CategoryContentWriting,
		CategoryProductivity,
		CategoryOther,
	}
}

// IsValid reports whether the category is a member of the closed set
func (x SessionCategory) IsValid() bool {
	switch x {
	case CategoryTripPlanning, CategoryShopping, CategoryJobSearch,
		CategoryResearch, CategoryContentWriting, CategoryProductivity,
		CategoryOther:
		return true
	}
	return false
}

// Normalize maps any out-of-set value to CategoryOther
func (x SessionCategory) Normalize() SessionCategory {
	if x.IsValid() {
		return x
	}
	return CategoryOther
}

func (x SessionCategory) String() string {
	return string(x)
}
