package mode

import "fmt"

// Compose is how facet and search passes combine into the visible set.
type Compose string

// Compose constants.
const (
	// Independent lets each pass overwrite the visible set (last writer wins).
	Independent Compose = "independent"
	// Conjunctive shows only items passing both the facet selection and the search query.
	Conjunctive Compose = "conjunctive"
)

// IsValid checks if the mode is one of the supported values.
func (c Compose) IsValid() bool {
	return c == Independent || c == Conjunctive
}

// Parse returns the Compose for s. Empty input means Independent.
func Parse(s string) (Compose, error) {
	if s == "" {
		return Independent, nil
	}
	c := Compose(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown compose mode %q (want %q or %q)", s, Independent, Conjunctive)
	}
	return c, nil
}

// Pass identifies which engine produced a visibility result.
type Pass string

// Pass constants.
const (
	Facet  Pass = "facet"
	Search Pass = "search"
	// Combined is a pass that applied both engines.
	Combined Pass = "combined"
)
