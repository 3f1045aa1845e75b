package models

// Cover is a cover_art record from GET /cover. Its own "manga" relationship
// points back at the entry it illustrates.
type Cover struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		FileName string `json:"fileName"`
		Volume   string `json:"volume"`
		Locale   string `json:"locale"`
	} `json:"attributes"`
	Relationships []Relationship `json:"relationships"`
}

type CoverListResponse struct {
	Result string  `json:"result"`
	Data   []Cover `json:"data"`
	Total  int     `json:"total"`
}
