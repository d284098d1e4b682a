package decode

import (
	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

var articleFields = []field[entity.Article]{
	{key: "id", rule: RuleID, set: setString(func(a *entity.Article) *string { return &a.ID })},
	{key: "title", rule: RuleString, required: true, set: setString(func(a *entity.Article) *string { return &a.Title })},
	{key: "title2", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.Subtitle })},
	{key: "project", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.Project })},
	{key: "timestamp", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.Timestamp })},
	{key: "date_updated", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.DateUpdated })},
	{key: "date_published", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.DatePublished })},
	{key: "date_created", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.DateCreated })},
	{key: "url", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.URL })},
	{key: "redirect_url", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.RedirectURL })},
	{key: "text_url", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.TextURL })},
	{key: "cnt_view", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.ViewCount })},
	{key: "shared_cnt", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.SharedCount })},
	{key: "image", rule: RuleAny, set: func(a *entity.Article, v Value) { a.Image = nestedImage(v) }},
	{key: "head_item", rule: RuleAny, set: func(a *entity.Article, v Value) { a.HeadItem = nestedImage(v) }},
	{key: "cnt_comm", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.CommentCount })},
	{key: "comm", rule: RuleFlag, set: setFlag(func(a *entity.Article) *bool { return &a.Commentable })},
	{key: "mod_status", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.ModStatus })},
	{key: "k", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.Key })},
	{key: "text", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.Text })},
	{key: "text_html", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.TextHTML })},
	{key: "short_text", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.ShortText })},
	{key: "text_items", rule: RuleList, set: func(a *entity.Article, v Value) { a.Body = DecodeNodes(v.Raw) }},
	{key: "text_type", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.TextType })},
	{key: "online", rule: RuleFlag, set: setFlag(func(a *entity.Article) *bool { return &a.Online })},
	{key: "closed", rule: RuleFlag, set: setFlag(func(a *entity.Article) *bool { return &a.Closed })},
	{key: "category", rule: RuleObject, set: func(a *entity.Article, v Value) { a.Category = nestedCategory(v) }},
	{key: "category_id", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.CategoryID })},
	{key: "bind", rule: RuleString, set: setString(func(a *entity.Article) *string { return &a.Bind })},
	{key: "story_net", rule: RuleObject, set: func(a *entity.Article, v Value) { a.StoryNet = nestedStory(v) }},
	{key: "tags", rule: RuleList, set: func(a *entity.Article, v Value) { a.Tags = nestedTags(v) }},
	{key: "display_type", rule: RuleInt, set: setInt(func(a *entity.Article) *int64 { return &a.DisplayType })},
}

// DecodeArticle decodes an article payload from a full entry object.
// When text_items is missing the body is derived from text_html.
func DecodeArticle(obj gjson.Result) (*entity.Article, error) {
	var a entity.Article
	if err := applyFields("article", obj, articleFields, &a); err != nil {
		return nil, err
	}
	if a.Body == nil && a.TextHTML != "" {
		a.Body = NodesFromHTML(a.TextHTML)
	}
	return &a, nil
}

var categoryFields = []field[entity.Category]{
	{key: "id", rule: RuleInt, set: setInt(func(c *entity.Category) *int64 { return &c.ID })},
	{key: "title", rule: RuleString, set: setString(func(c *entity.Category) *string { return &c.Title })},
	{key: "slug", rule: RuleString, set: setString(func(c *entity.Category) *string { return &c.Slug })},
}

func nestedCategory(v Value) *entity.Category {
	if !v.Present || v.Malformed {
		return nil
	}
	var c entity.Category
	_ = applyFields("category", v.Raw, categoryFields, &c)
	return &c
}

var storyFields = []field[entity.Story]{
	{key: "id", rule: RuleID, set: setString(func(s *entity.Story) *string { return &s.ID })},
	{key: "title", rule: RuleString, set: setString(func(s *entity.Story) *string { return &s.Title })},
	{key: "url", rule: RuleString, set: setString(func(s *entity.Story) *string { return &s.URL })},
}

func nestedStory(v Value) *entity.Story {
	if !v.Present || v.Malformed {
		return nil
	}
	var s entity.Story
	_ = applyFields("story", v.Raw, storyFields, &s)
	return &s
}

var tagFields = []field[entity.Tag]{
	{key: "id", rule: RuleID, set: setString(func(t *entity.Tag) *string { return &t.ID })},
	{key: "title", rule: RuleString, set: setString(func(t *entity.Tag) *string { return &t.Title })},
}

// nestedTags accepts tag objects or bare tag names.
func nestedTags(v Value) []entity.Tag {
	if !v.Present || v.Malformed {
		return nil
	}
	var out []entity.Tag
	v.Raw.ForEach(func(_, item gjson.Result) bool {
		switch {
		case item.IsObject():
			var t entity.Tag
			_ = applyFields("tag", item, tagFields, &t)
			out = append(out, t)
		case item.Type == gjson.String && item.Str != "":
			out = append(out, entity.Tag{ID: item.Str, Title: item.Str})
		}
		return true
	})
	return out
}
