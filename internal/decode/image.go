package decode

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

var imageFields = []field[entity.ImageRef]{
	{key: "id", rule: RuleID, set: setString(func(i *entity.ImageRef) *string { return &i.ID })},
	{key: "title", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.Title })},
	{key: "author", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.Author })},
	{key: "name", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.Name })},
	{key: "thumb", rule: RuleString, required: true, set: setString(func(i *entity.ImageRef) *string { return &i.Thumb })},
	{key: "sd", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.SD })},
	{key: "hd", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.HD })},
	{key: "sensitive", rule: RuleString, set: setString(func(i *entity.ImageRef) *string { return &i.Sensitive })},
	{key: "width", rule: RuleInt, set: setInt(func(i *entity.ImageRef) *int64 { return &i.Width })},
	{key: "height", rule: RuleInt, set: setInt(func(i *entity.ImageRef) *int64 { return &i.Height })},
}

// DecodeImage decodes a standalone image reference. The thumbnail is required.
func DecodeImage(obj gjson.Result) (entity.ImageRef, error) {
	var img entity.ImageRef
	if err := applyFields("image", obj, imageFields, &img); err != nil {
		return entity.ImageRef{}, err
	}
	return img, nil
}

// nestedImage decodes an image held by another record. A bare URL string is
// accepted as the thumbnail; any failure degrades to nil instead of failing the
// parent.
func nestedImage(v Value) *entity.ImageRef {
	if !v.Present {
		return nil
	}
	if v.Raw.Type == gjson.String {
		url := strings.TrimSpace(v.Raw.Str)
		if url == "" {
			return nil
		}
		return &entity.ImageRef{ID: uuid.NewString(), Thumb: url}
	}
	if !v.Raw.IsObject() {
		return nil
	}
	img, err := DecodeImage(v.Raw)
	if err != nil {
		slog.Debug("nested image dropped", slog.Any("error", err))
		return nil
	}
	return &img
}

// nestedImages decodes an array of images, dropping the ones that fail.
func nestedImages(v Value) []entity.ImageRef {
	if !v.Present || !v.Raw.IsArray() {
		return nil
	}
	var out []entity.ImageRef
	v.Raw.ForEach(func(_, item gjson.Result) bool {
		if img := nestedImage(RuleAny.Read(item)); img != nil {
			out = append(out, *img)
		}
		return true
	})
	return out
}

var embedFields = []field[entity.Embed]{
	{key: "id", rule: RuleString, set: setString(func(e *entity.Embed) *string { return &e.ID })},
	{key: "type", rule: RuleString, set: setString(func(e *entity.Embed) *string { return &e.Type })},
	{key: "url", rule: RuleString, set: setString(func(e *entity.Embed) *string { return &e.URL })},
	{key: "html", rule: RuleString, set: setString(func(e *entity.Embed) *string { return &e.HTML })},
	{key: "provider", rule: RuleString, set: setString(func(e *entity.Embed) *string { return &e.Provider })},
	{key: "width", rule: RuleInt, set: setInt(func(e *entity.Embed) *int64 { return &e.Width })},
	{key: "height", rule: RuleInt, set: setInt(func(e *entity.Embed) *int64 { return &e.Height })},
	{key: "thumb", rule: RuleAny, set: func(e *entity.Embed, v Value) { e.Thumb = nestedImage(v) }},
}

// DecodeEmbed decodes an embed descriptor. An embed without url and html is rejected.
func DecodeEmbed(obj gjson.Result) (entity.Embed, error) {
	var e entity.Embed
	if err := applyFields("embed", obj, embedFields, &e); err != nil {
		return entity.Embed{}, err
	}
	if e.URL == "" && e.HTML == "" {
		return entity.Embed{}, &entity.FieldError{Entity: "embed", Field: "url", Reason: "missing url and html"}
	}
	return e, nil
}

func nestedEmbed(v Value) *entity.Embed {
	if !v.Present || !v.Raw.IsObject() {
		return nil
	}
	e, err := DecodeEmbed(v.Raw)
	if err != nil {
		slog.Debug("nested embed dropped", slog.Any("error", err))
		return nil
	}
	return &e
}
