package models

// Tag is a catalog category (genre, theme, format, content).
type Tag struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Name  LocalizedString `json:"name"`
		Group string          `json:"group"`
	} `json:"attributes"`
}

// TagListResponse is the envelope of GET /manga/tag.
type TagListResponse struct {
	Result string `json:"result"`
	Data   []Tag  `json:"data"`
}
