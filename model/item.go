package model

// Item is one item definition row from the ItemData exports.
// Rows are written once during ingestion and never updated.
type Item struct {
	ID              int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	NameKey         string `json:"name_key"`
	Icon            string `json:"icon"`
	Level           int    `gorm:"default:0" json:"level"`
	LinkEquipmentID int    `gorm:"index:idx_items_link_equipment_id;default:0" json:"link_equipment_id"`
	Category        string `gorm:"index:idx_items_category" json:"category"`
	RareGrade       int    `gorm:"default:0" json:"rare_grade"`
}
