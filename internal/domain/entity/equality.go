package entity

// Shallow equality is what list diffing uses to decide whether a rendered row
// must be refreshed. Each policy below names the fields it leaves out.

// ShallowEqual compares two entries by identity and kind, then delegates to the
// payload policy.
func (e FeedEntry) ShallowEqual(o FeedEntry) bool {
	if e.ID != o.ID || e.Title != o.Title || e.Kind != o.Kind {
		return false
	}
	switch e.Kind {
	case KindAdvertisement:
		return e.Advertisement.ShallowEqual(o.Advertisement)
	case KindPoll:
		return e.Poll.ShallowEqual(o.Poll)
	default:
		return e.Article.ShallowEqual(o.Article)
	}
}

// ShallowEqual compares articles.
// Text, TextHTML and ShortText are compared by length only and Body by node
// count only: full bodies are too large to diff on every refresh.
// Tags, Category and StoryNet are ignored.
func (a *Article) ShallowEqual(o *Article) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.ID == o.ID &&
		a.Title == o.Title &&
		a.Subtitle == o.Subtitle &&
		a.Timestamp == o.Timestamp &&
		a.DateUpdated == o.DateUpdated &&
		a.ViewCount == o.ViewCount &&
		a.SharedCount == o.SharedCount &&
		a.CommentCount == o.CommentCount &&
		a.Online == o.Online &&
		a.Closed == o.Closed &&
		a.DisplayType == o.DisplayType &&
		imageEqual(a.Image, o.Image) &&
		len(a.Text) == len(o.Text) &&
		len(a.TextHTML) == len(o.TextHTML) &&
		len(a.ShortText) == len(o.ShortText) &&
		CountNodes(a.Body) == CountNodes(o.Body)
}

// ShallowEqual compares the backend identity of two ads.
// InstanceID is excluded; use SameInstance to tell two renders apart.
func (a *Advertisement) ShallowEqual(o *Advertisement) bool {
	if a == nil || o == nil {
		return a == o
	}
	return a.AdID == o.AdID &&
		a.BannerID == o.BannerID &&
		a.Placement == o.Placement &&
		a.BannerPath == o.BannerPath &&
		a.Width == o.Width &&
		a.Height == o.Height
}

// SameInstance reports whether both values describe the same render.
func (a *Advertisement) SameInstance(o *Advertisement) bool {
	return a != nil && o != nil && a.InstanceID == o.InstanceID && a.ShallowEqual(o)
}

// ShallowEqual compares polls including the local selection.
// Text and ShortText are compared by length only. Option labels are ignored;
// option ids and vote counts are compared.
func (p *Poll) ShallowEqual(o *Poll) bool {
	if p == nil || o == nil {
		return p == o
	}
	if p.ID != o.ID ||
		p.Title != o.Title ||
		p.TotalVotes != o.TotalVotes ||
		p.CanVote != o.CanVote ||
		p.HideResult != o.HideResult ||
		p.Selected != o.Selected ||
		len(p.Text) != len(o.Text) ||
		len(p.ShortText) != len(o.ShortText) ||
		len(p.Options) != len(o.Options) {
		return false
	}
	for i := range p.Options {
		if p.Options[i].ID != o.Options[i].ID || p.Options[i].Votes != o.Options[i].Votes {
			return false
		}
	}
	return true
}

func imageEqual(a, b *ImageRef) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Thumb == b.Thumb
}
