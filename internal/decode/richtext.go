package decode

import (
	"log/slog"

	"github.com/tidwall/gjson"

	"newsfeed/internal/domain/entity"
	"newsfeed/internal/observability/metrics"
)

var (
	nodeText    = field[entity.TextNode]{key: "text", rule: RuleString, set: setString(func(n *entity.TextNode) *string { return &n.Text })}
	nodeURL     = field[entity.TextNode]{key: "url", rule: RuleString, set: setString(func(n *entity.TextNode) *string { return &n.URL })}
	nodeImage   = field[entity.TextNode]{key: "image", rule: RuleAny, set: func(n *entity.TextNode, v Value) { n.Image = nestedImage(v) }}
	nodeImages  = field[entity.TextNode]{key: "images", rule: RuleList, set: func(n *entity.TextNode, v Value) { n.Images = nestedImages(v) }}
	nodeEmbed   = field[entity.TextNode]{key: "embed", rule: RuleObject, set: func(n *entity.TextNode, v Value) { n.Embed = nestedEmbed(v) }}
	nodeOrdered = field[entity.TextNode]{key: "ordered", rule: RuleFlag, set: setFlag(func(n *entity.TextNode) *bool { return &n.Ordered })}
)

// nodeFieldsByType lists the payload fields each node type carries. Fields
// outside a node's table are ignored, so a text node never gains an image.
// Unknown nodes keep everything that can be extracted.
var nodeFieldsByType = map[entity.NodeType][]field[entity.TextNode]{
	entity.NodeText:          {nodeText},
	entity.NodeImage:         {nodeImage},
	entity.NodeGallery:       {nodeImages},
	entity.NodeLink:          {nodeURL, nodeText},
	entity.NodeEmbed:         {nodeEmbed},
	entity.NodeList:          {nodeOrdered},
	entity.NodeQuote:         {nodeText},
	entity.NodeLinkedArticle: nil,
	entity.NodeUnknown:       {nodeText, nodeURL, nodeImage, nodeImages, nodeEmbed, nodeOrdered},
}

var linkedArticleFields = []field[entity.LinkedArticle]{
	{key: "id", rule: RuleID, set: setString(func(a *entity.LinkedArticle) *string { return &a.ID })},
	{key: "title", rule: RuleString, set: setString(func(a *entity.LinkedArticle) *string { return &a.Title })},
	{key: "url", rule: RuleString, set: setString(func(a *entity.LinkedArticle) *string { return &a.URL })},
	{key: "image", rule: RuleAny, set: func(a *entity.LinkedArticle, v Value) { a.Image = nestedImage(v) }},
}

// DecodeNodes decodes a rich-text node list. It never fails: nodes that are not
// objects are dropped and nodes with an unrecognized type decode as unknown.
func DecodeNodes(list gjson.Result) []entity.TextNode {
	if !list.IsArray() {
		return nil
	}
	var out []entity.TextNode
	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			// A bare string is a paragraph.
			if item.Type == gjson.String && item.Str != "" {
				out = append(out, entity.TextNode{Type: entity.NodeText, Text: item.Str})
			}
			return true
		}
		out = append(out, DecodeNode(item))
		return true
	})
	return out
}

// DecodeNode decodes one rich-text node. The type is resolved first and only
// that type's payload fields are read. Children are decoded for composite
// types only; a quote sent as plain text becomes a quote with one text child.
func DecodeNode(obj gjson.Result) entity.TextNode {
	var n entity.TextNode
	rawType := obj.Get("type")
	typ, ok := entity.ParseNodeType(rawType.String())
	if !ok || rawType.Type != gjson.String {
		n.Type = entity.NodeUnknown
		n.RawType = rawType.Raw
		if rawType.Type == gjson.String {
			n.RawType = rawType.Str
		}
		metrics.RecordUnknownNode()
		slog.Debug("unknown rich-text node", slog.String("type", n.RawType))
	} else {
		n.Type = typ
	}

	// Node tables have no required fields.
	_ = applyFields("node", obj, nodeFieldsByType[n.Type], &n)

	if n.Type == entity.NodeLinkedArticle || n.Type == entity.NodeUnknown {
		n.Article = linkedArticle(obj)
	}

	if !n.Type.IsComposite() {
		return n
	}
	children := obj.Get("children")
	if !children.Exists() {
		children = obj.Get("items")
	}
	n.Children = DecodeNodes(children)
	if n.Type == entity.NodeQuote {
		if len(n.Children) == 0 && n.Text != "" {
			n.Children = []entity.TextNode{{Type: entity.NodeText, Text: n.Text}}
		}
		n.Text = ""
	}
	return n
}

func linkedArticle(obj gjson.Result) *entity.LinkedArticle {
	raw := obj.Get("article")
	if !raw.IsObject() {
		raw = obj.Get("news")
	}
	if !raw.IsObject() {
		return nil
	}
	var a entity.LinkedArticle
	_ = applyFields("linked_article", raw, linkedArticleFields, &a)
	return &a
}
