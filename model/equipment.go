package model

// EquipmentStats holds the combat stats linked from Item.LinkEquipmentID.
// Balance and Impact are opaque ratio/formula labels from the export, kept
// verbatim as strings.
type EquipmentStats struct {
	EquipmentID int    `gorm:"primaryKey;autoIncrement:false" json:"equipment_id"`
	Balance     string `json:"balance"`
	Defense     int    `json:"defense"`
	Impact      string `json:"impact"`
	MaxAttack   int    `json:"max_attack"`
}
