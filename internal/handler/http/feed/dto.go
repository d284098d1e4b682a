// Package feed serves decoded feed pages over HTTP.
package feed

import (
	"newsfeed/internal/decode"
	"newsfeed/internal/domain/entity"
	"newsfeed/internal/usecase/media"
)

// PageDTO is the body of GET /feed.
type PageDTO struct {
	Source  string                `json:"source"`
	Page    int                   `json:"page"`
	Entries []EntryDTO            `json:"entries"`
	Skipped []decode.SkippedEntry `json:"skipped,omitempty"`
}

// EntryDTO is one feed entry. Exactly one payload is set, matching Kind.
type EntryDTO struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Kind          entity.EntryKind `json:"kind"`
	Article       *ArticleDTO      `json:"article,omitempty"`
	Advertisement *AdDTO           `json:"advertisement,omitempty"`
	Poll          *entity.Poll     `json:"poll,omitempty"`
}

// ArticleDTO adds the resolved image URLs to an article.
type ArticleDTO struct {
	*entity.Article
	ImageURL     string `json:"image_url,omitempty"`
	HeadImageURL string `json:"head_image_url,omitempty"`
}

// AdDTO exposes the instance id clients echo back in lifecycle calls.
type AdDTO struct {
	*entity.Advertisement
	InstanceID string `json:"instance_id"`
}

func toPageDTO(source string, page int, p *decode.Page, prefs media.Preferences, forceHD bool) PageDTO {
	out := PageDTO{
		Source:  source,
		Page:    page,
		Entries: make([]EntryDTO, 0, len(p.Entries)),
		Skipped: p.Skipped,
	}
	for _, e := range p.Entries {
		dto := EntryDTO{ID: e.ID, Title: e.Title, Kind: e.Kind}
		switch e.Kind {
		case entity.KindArticle:
			dto.Article = &ArticleDTO{
				Article:      e.Article,
				ImageURL:     media.Select(e.Article.Image, prefs, forceHD),
				HeadImageURL: media.Select(e.Article.HeadItem, prefs, forceHD),
			}
		case entity.KindAdvertisement:
			dto.Advertisement = &AdDTO{Advertisement: e.Advertisement, InstanceID: e.Advertisement.InstanceID}
		case entity.KindPoll:
			dto.Poll = e.Poll
		}
		out.Entries = append(out.Entries, dto)
	}
	return out
}
