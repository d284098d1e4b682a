package entity

// Article is the payload of a news entry.
// Numeric fields are normalized to int64 regardless of how the backend typed them.
type Article struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Subtitle      string     `json:"title2,omitempty"`
	Project       string     `json:"project,omitempty"`
	Timestamp     int64      `json:"timestamp"`
	DateUpdated   int64      `json:"date_updated"`
	DatePublished int64      `json:"date_published,omitempty"`
	DateCreated   int64      `json:"date_created,omitempty"`
	URL           string     `json:"url,omitempty"`
	RedirectURL   string     `json:"redirect_url,omitempty"`
	TextURL       string     `json:"text_url,omitempty"`
	ViewCount     int64      `json:"view_count"`
	SharedCount   int64      `json:"shared_count"`
	Image         *ImageRef  `json:"image,omitempty"`
	HeadItem      *ImageRef  `json:"head_item,omitempty"`
	CommentCount  int64      `json:"comment_count"`
	Commentable   bool       `json:"commentable"`
	ModStatus     int64      `json:"mod_status,omitempty"`
	Key           string     `json:"k,omitempty"`
	Text          string     `json:"text,omitempty"`
	TextHTML      string     `json:"text_html,omitempty"`
	ShortText     string     `json:"short_text,omitempty"`
	Body          []TextNode `json:"body,omitempty"`
	TextType      int64      `json:"text_type,omitempty"`
	Online        bool       `json:"online"`
	Closed        bool       `json:"closed"`
	Category      *Category  `json:"category,omitempty"`
	CategoryID    int64      `json:"category_id,omitempty"`
	Bind          string     `json:"bind,omitempty"`
	StoryNet      *Story     `json:"story_net,omitempty"`
	Tags          []Tag      `json:"tags,omitempty"`
	DisplayType   int64      `json:"display_type,omitempty"`
}

// Category is the editorial section an article belongs to.
type Category struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug,omitempty"`
}

// Tag is a free-form label attached to an article.
type Tag struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Story groups an article into a running story.
type Story struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
}

// LinkedArticle is the compact article reference carried by linked-article nodes.
type LinkedArticle struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	URL   string    `json:"url,omitempty"`
	Image *ImageRef `json:"image,omitempty"`
}
