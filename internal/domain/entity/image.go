package entity

// ImageRef describes an image resource.
// Thumb is always present; the other variants are optional and picked at render
// time by the media resolution policy.
type ImageRef struct {
	ID        string `json:"id"`
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Name      string `json:"name,omitempty"`
	Thumb     string `json:"thumb"`
	SD        string `json:"sd,omitempty"`
	HD        string `json:"hd,omitempty"`
	Sensitive string `json:"sensitive,omitempty"`
	Width     int64  `json:"width,omitempty"`
	Height    int64  `json:"height,omitempty"`
}

// Embed is third-party content placed inside an article body.
type Embed struct {
	ID       string    `json:"id,omitempty"`
	Type     string    `json:"type"`
	URL      string    `json:"url,omitempty"`
	HTML     string    `json:"html,omitempty"`
	Provider string    `json:"provider,omitempty"`
	Width    int64     `json:"width,omitempty"`
	Height   int64     `json:"height,omitempty"`
	Thumb    *ImageRef `json:"thumb,omitempty"`
}
