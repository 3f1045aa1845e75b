package models

// MALListResponse is the envelope of GET /v2/users/{user}/mangalist. Data is
// nil when MAL answered with an error object instead of a list.
type MALListResponse struct {
	Data   *[]MALListEntry `json:"data"`
	Paging struct {
		Next string `json:"next,omitempty"`
	} `json:"paging"`
}

type MALListEntry struct {
	Node MALNode `json:"node"`
}

type MALNode struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MALManga is GET /v2/manga/{id}?fields=mean. Mean is nil when MAL has no
// score for the entry.
type MALManga struct {
	ID    int      `json:"id"`
	Title string   `json:"title"`
	Mean  *float64 `json:"mean,omitempty"`
}
