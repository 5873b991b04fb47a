package entity

// AttributeField describes one entry of an item type's attribute schema.
// Type is an open tag ("text", "number", "date", ...); consumers must
// tolerate tags they do not know.
type AttributeField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// ItemType describes a category of shareable items together with the
// ordered attribute schema its items are expected (but not required) to
// follow.
type ItemType struct {
	ID         uint
	Name       string // Unique display name.
	Attributes []AttributeField
}
