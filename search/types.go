package search

import "github.com/teralab/itemdex/icon"

// Request is one consumer-issued search. Numeric is set by the caller when
// Text parses as an integer; exactly one of the two match branches runs.
type Request struct {
	Text       string   `json:"text"`
	Numeric    bool     `json:"numeric"`
	ID         int      `json:"id"`
	Categories []string `json:"categories"`
}

// ItemRecord is one materialized search result row. When HasEquipmentStats
// is false the four stat fields are not applicable, not zero.
type ItemRecord struct {
	ID              int    `json:"id"`
	Icon            string `json:"icon"`
	Level           int    `json:"level"`
	Name            string `json:"name"`
	Tooltip         string `json:"tooltip"`
	LinkEquipmentID int    `json:"link_equipment_id"`
	RareGrade       int    `json:"rare_grade"`

	HasEquipmentStats bool   `json:"has_equipment_stats"`
	Balance           string `json:"balance,omitempty"`
	Defense           int    `json:"defense,omitempty"`
	Impact            string `json:"impact,omitempty"`
	MaxAttack         int    `json:"max_attack,omitempty"`

	// Asset is assigned by the icon loader; nil when the icon could not be
	// resolved or loaded. Its pixel data stays server-side, only the
	// dimensions are serialized; clients fetch the bytes from /api/icons.
	Asset *icon.Asset `json:"asset,omitempty"`
}

// Result is a completed search. Limited is true when the browse-everything
// cap was applied.
type Result struct {
	Items   []*ItemRecord `json:"items"`
	Limited bool          `json:"limited"`
}
