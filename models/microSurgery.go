package models

const microSurgeryPresent = "有微整型"

type MicroSurgery struct {
	MicroSurgeryId          int    `gorm:"primary_key" json:"micro_surgery_id"`
	MicroSurgerySelection   string `gorm:"size:50" json:"micro_surgery_selection"`
	MicroSurgeryDescription string `gorm:"type:text" json:"micro_surgery_description"`
}
