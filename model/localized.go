package model

// LocalizedItem is the display name and tooltip for one item in the active
// locale. ID matches Item.ID 1:1; items without a localized row are not
// searchable.
type LocalizedItem struct {
	ID      int    `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name    string `json:"name"`
	Tooltip string `json:"tooltip"`
}
