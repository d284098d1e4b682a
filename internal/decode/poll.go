package decode

import (
	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
)

var pollFields = []field[entity.Poll]{
	{key: "id", rule: RuleID, set: setString(func(p *entity.Poll) *string { return &p.ID })},
	{key: "title", rule: RuleString, required: true, set: setString(func(p *entity.Poll) *string { return &p.Title })},
	{key: "web_title", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.WebTitle })},
	{key: "short_text", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.ShortText })},
	{key: "text", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.Text })},
	{key: "icon", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.Icon })},
	{key: "date", rule: RuleInt, set: setInt(func(p *entity.Poll) *int64 { return &p.Date })},
	{key: "url", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.URL })},
	{key: "start_date", rule: RuleInt, set: setInt(func(p *entity.Poll) *int64 { return &p.StartDate })},
	{key: "till_date", rule: RuleInt, set: setInt(func(p *entity.Poll) *int64 { return &p.TillDate })},
	{key: "till_date_iso", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.TillDateISO })},
	{key: "pnid", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.PNID })},
	{key: "cnt_view", rule: RuleInt, set: setInt(func(p *entity.Poll) *int64 { return &p.ViewCount })},
	{key: "cnt_comm", rule: RuleInt, set: setInt(func(p *entity.Poll) *int64 { return &p.CommentCount })},
	{key: "vote_id", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.Selected })},
	{key: "can_vote", rule: RuleFlag, set: setFlag(func(p *entity.Poll) *bool { return &p.CanVote })},
	{key: "no_auth", rule: RuleFlag, set: setFlag(func(p *entity.Poll) *bool { return &p.NoAuth })},
	{key: "hide_result", rule: RuleFlag, set: setFlag(func(p *entity.Poll) *bool { return &p.HideResult })},
	{key: "image", rule: RuleAny, set: func(p *entity.Poll, v Value) { p.Image = nestedImage(v) }},
	{key: "info_msg", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.InfoMsg })},
	{key: "info_url", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.InfoURL })},
	{key: "auth_msg", rule: RuleString, set: setString(func(p *entity.Poll) *string { return &p.AuthMsg })},
	{key: "total_votes", rule: RuleInt, required: true, set: setInt(func(p *entity.Poll) *int64 { return &p.TotalVotes })},
	// params holds the options; they are built after the table so percentages can use total_votes.
	{key: "params", rule: RuleList, required: true},
}

var optionFields = []field[entity.PollOption]{
	{key: "item_id", rule: RuleID, set: setString(func(o *entity.PollOption) *string { return &o.ID })},
	{key: "title", rule: RuleString, set: setString(func(o *entity.PollOption) *string { return &o.Label })},
	{key: "num", rule: RuleInt, set: setInt(func(o *entity.PollOption) *int64 { return &o.Votes })},
	{key: "percent", rule: RuleString, set: setString(func(o *entity.PollOption) *string { return &o.Percent })},
}

// DecodePoll decodes a poll payload from a full entry object.
// total_votes and params are required; a missing percent is computed from the
// option votes and the total.
func DecodePoll(obj gjson.Result) (*entity.Poll, error) {
	var p entity.Poll
	if err := applyFields("poll", obj, pollFields, &p); err != nil {
		return nil, err
	}

	obj.Get("params").ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		var o entity.PollOption
		_ = applyFields("poll_option", item, optionFields, &o)
		if o.Percent == "" {
			o.Percent = entity.FormatPercent(o.Votes, p.TotalVotes)
		}
		p.Options = append(p.Options, o)
		return true
	})
	if p.Options == nil {
		p.Options = []entity.PollOption{}
	}

	return &p, nil
}
