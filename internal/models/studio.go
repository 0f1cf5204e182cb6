package models

// Studio is the single business record owned by one account.
// All text fields are blank-defaulting; callers never see NULL.
type Studio struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
