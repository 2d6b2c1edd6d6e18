package models

import "encoding/json"

// SymptomHistory is the usual_sympton_and_family_history table. The column
// (and table) spelling is a historical typo baked into the schema.
type SymptomHistory struct {
	UsualSymptonAndFamilyHistoryId int    `gorm:"primary_key;column:usual_sympton_and_family_history_id" json:"usual_sympton_and_family_history_id"`
	MemberId                       int    `gorm:"index" json:"member_id"`
	HPASelection                   string `gorm:"column:HPA_selection;type:text" json:"HPA_selection"`
	MeridianSelection              string `gorm:"type:text" json:"meridian_selection"`
	NeckAndShoulderSelection       string `gorm:"type:text" json:"neck_and_shoulder_selection"`
	AnusSelection                  string `gorm:"type:text" json:"anus_selection"`
	FamilyHistorySelection         string `gorm:"type:text" json:"family_history_selection"`
	Others                         string `gorm:"type:text" json:"others"`
}

func (SymptomHistory) TableName() string {
	return "usual_sympton_and_family_history"
}

// SymptomSelections is the symptom payload the clients send and receive.
// Older clients put the free-text field in "others", newer ones in
// "symptomOthers"; both are honored.
type SymptomSelections struct {
	HPA             []string `json:"HPA"`
	Meridian        []string `json:"meridian"`
	NeckAndShoulder []string `json:"neckAndShoulder"`
	Anus            []string `json:"anus"`
	Others          string   `json:"others,omitempty"`
	SymptomOthers   string   `json:"symptomOthers,omitempty"`
}

func (s *SymptomSelections) OthersText() string {
	if s.SymptomOthers != "" {
		return s.SymptomOthers
	}
	return s.Others
}

type FamilyHistoryPayload struct {
	FamilyHistory       []string `json:"familyHistory"`
	FamilyHistoryOthers string   `json:"familyHistoryOthers"`
}

// encodeSelectionList always stores a JSON array, never SQL NULL or "".
func encodeSelectionList(items []string) string {
	if items == nil {
		items = []string{}
	}
	encoded, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// decodeSelectionList tolerates the malformed values older client versions
// wrote; anything unparseable reads back as an empty selection.
func decodeSelectionList(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return []string{}
	}
	return items
}

func (h *SymptomHistory) toSelections() *SymptomSelections {
	return &SymptomSelections{
		HPA:             decodeSelectionList(h.HPASelection),
		Meridian:        decodeSelectionList(h.MeridianSelection),
		NeckAndShoulder: decodeSelectionList(h.NeckAndShoulderSelection),
		Anus:            decodeSelectionList(h.AnusSelection),
		SymptomOthers:   h.Others,
	}
}
