package entity

// NavLink is a navigation entry found during discovery.
type NavLink struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
	Href  string `json:"href"`
}
