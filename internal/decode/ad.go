package decode

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

var adFields = []field[entity.Advertisement]{
	{key: "ad_id", rule: RuleInt, set: setInt(func(a *entity.Advertisement) *int64 { return &a.AdID })},
	{key: "target", rule: RuleEnum, set: setPlacement},
	{key: "url", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.URL })},
	{key: "banner_id", rule: RuleInt, set: setInt(func(a *entity.Advertisement) *int64 { return &a.BannerID })},
	{key: "banner_path", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.BannerPath })},
	{key: "landscape_banner_path", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.LandscapeBannerPath })},
	{key: "bg_color", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.BgColor })},
	{key: "width", rule: RuleInt, set: setInt(func(a *entity.Advertisement) *int64 { return &a.Width })},
	{key: "height", rule: RuleInt, set: setInt(func(a *entity.Advertisement) *int64 { return &a.Height })},
	{key: "aspect_ratio", rule: RuleFloat, set: setFloat(func(a *entity.Advertisement) *float64 { return &a.AspectRatio })},
	{key: "close_icon", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.CloseIcon })},
	{key: "showed_ad_time", rule: RuleInt, set: setInt(func(a *entity.Advertisement) *int64 { return &a.ShowedAdTime })},
	{key: "ad_ids", rule: RuleList, set: func(a *entity.Advertisement, v Value) { a.AdIDs = intList(v) }},
	{key: "size", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.Size })},
	// type is resolved after the table so banner_path is known.
	{key: "type", rule: RuleString},
	{key: "scale_type", rule: RuleString, set: setString(func(a *entity.Advertisement) *string { return &a.ScaleType })},
	{key: "open_type", rule: RuleEnum, set: func(a *entity.Advertisement, v Value) { a.OpenType = entity.OpenTypeFromInt(v.Int) }},
	{key: "skip_time", rule: RuleInt, set: setOptionalInt(func(a *entity.Advertisement) **int64 { return &a.SkipTime })},
}

// DecodeAd decodes an advertisement payload from a full entry object and
// assigns it a fresh instance id.
func DecodeAd(obj gjson.Result) (*entity.Advertisement, error) {
	var ad entity.Advertisement
	if err := applyFields("ad", obj, adFields, &ad); err != nil {
		return nil, err
	}
	ad.Media = entity.ParseMediaKind(obj.Get("type").String(), ad.BannerPath)
	ad.InstanceID = uuid.NewString()
	return &ad, nil
}

// setPlacement accepts a placement name or its numeric slot.
func setPlacement(a *entity.Advertisement, v Value) {
	if !v.Present {
		return
	}
	var ok bool
	if v.Str != "" {
		a.Placement, ok = entity.ParsePlacement(v.Str)
	} else {
		a.Placement, ok = entity.PlacementFromIndex(v.Int)
	}
	if !ok {
		slog.Debug("unknown ad placement", slog.String("raw", v.Raw.Raw))
	}
}

// intList decodes an array of integers, each element tolerant on its own.
func intList(v Value) []int64 {
	if !v.Present || !v.Raw.IsArray() {
		return nil
	}
	var out []int64
	v.Raw.ForEach(func(_, item gjson.Result) bool {
		if n := RuleInt.Read(item); n.Present {
			out = append(out, n.Int)
		}
		return true
	})
	return out
}
