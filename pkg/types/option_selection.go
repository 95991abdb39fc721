package types

import "github.com/google/uuid"

// OptionSelection is one chosen product option reference stored on a cart item.
type OptionSelection struct {
	ID uuid.UUID `json:"id"`
}

// OptionSelections is the serialized list persisted on cart_items.options.
type OptionSelections []OptionSelection
