package entities

type Tutorial struct {
	ID          string `json:"_id,omitempty"`
	Title       string `json:"title"`
	VideoURL    string `json:"videoUrl"`
	Description string `json:"description,omitempty"`
}
