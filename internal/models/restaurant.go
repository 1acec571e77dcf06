package models

type Restaurant struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	SlugName  string     `json:"slug_name"`
	Phone     string     `json:"phone"`
	Town      string     `json:"town"`
	Cuisines  []string   `json:"cuisines"`
	Offline   bool       `json:"offline"`
	MenuItems []MenuItem `json:"menu_items"`
}
