package model

// Entity is a structured item extracted from screenshots. The type vocabulary
// is open ("hotel", "flight", "product", "job", ...); the title may be nil when
// the generator could not name the item.
type Entity struct {
	Type       string            `json:"type" firestore:"type"`
	Title      *string           `json:"title" firestore:"title"`
	Attributes map[string]string `json:"attributes" firestore:"attributes"`
}

// Clone returns a deep copy of the entity
func (x Entity) Clone() Entity {
	c := Entity{Type: x.Type}
	if x.Title != nil {
		title := *x.Title
		c.Title = &title
	}
	if x.Attributes != nil {
		c.Attributes = make(map[string]string, len(x.Attributes))
		for k, v := range x.Attributes {
			c.Attributes[k] = v
		}
	}
	return c
}

// CloneEntities deep-copies a slice of entities, mapping nil to an empty slice
func CloneEntities(entities []Entity) []Entity {
	cloned := make([]Entity, len(entities))
	for i, e := range entities {
		cloned[i] = e.Clone()
	}
	return cloned
}
