package models

type HealthStatus struct {
	HealthStatusId        int    `gorm:"primary_key" json:"health_status_id"`
	MemberId              int    `gorm:"index" json:"member_id"`
	HealthStatusSelection string `gorm:"type:text" json:"health_status_selection"`
	Others                string `gorm:"type:text" json:"others"`
}

type HealthStatusPayload struct {
	SelectedStates []string `json:"selectedStates"`
	OtherText      string   `json:"otherText"`
}
