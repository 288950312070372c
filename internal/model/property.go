package model

// Property is a rentable unit managed by the owner.  The set of
// properties is static reference data supplied at startup and never
// mutated by the engine.
//
// Fields:
//
//	ID      – unique identifier referenced by reservations.
//	Name    – display name.
//	Address – optional street address.
//	Color   – color tag used by the presentation layer.
//	Icon    – icon tag used by the presentation layer.
type Property struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Color   string `json:"color"`
	Icon    string `json:"icon"`
}

// FindProperty returns the property with the given id from props.
func FindProperty(props []Property, id int) (Property, bool) {
	for _, p := range props {
		if p.ID == id {
			return p, true
		}
	}
	return Property{}, false
}
