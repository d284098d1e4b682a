package entity

import "strings"

// NodeType tags a rich-text node.
type NodeType string

// Node types understood by the renderer. Anything else decodes as NodeUnknown.
const (
	NodeText          NodeType = "text"
	NodeImage         NodeType = "image"
	NodeGallery       NodeType = "gallery"
	NodeLink          NodeType = "link"
	NodeEmbed         NodeType = "embed"
	NodeList          NodeType = "list"
	NodeQuote         NodeType = "quote"
	NodeLinkedArticle NodeType = "linked-article"
	NodeUnknown       NodeType = "unknown"
)

var nodeAliases = map[string]NodeType{
	"text":           NodeText,
	"paragraph":      NodeText,
	"image":          NodeImage,
	"gallery":        NodeGallery,
	"link":           NodeLink,
	"embed":          NodeEmbed,
	"list":           NodeList,
	"quote":          NodeQuote,
	"linked-article": NodeLinkedArticle,
	"linked_article": NodeLinkedArticle,
	"news":           NodeLinkedArticle,
}

// ParseNodeType maps a wire tag to a NodeType, reporting whether it was recognized.
func ParseNodeType(tag string) (NodeType, bool) {
	t, ok := nodeAliases[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return NodeUnknown, false
	}
	return t, true
}

// IsComposite reports whether nodes of this type carry children.
func (t NodeType) IsComposite() bool {
	switch t {
	case NodeList, NodeQuote, NodeUnknown:
		return true
	}
	return false
}

// TextNode is one node of an article body tree.
// Only the fields relevant to Type are populated: Text for text and link
// nodes, URL for links, Image, Images, Embed and Article for their types, and
// Children (with Ordered for lists) for composite nodes. RawType keeps the original
// wire tag for unknown nodes.
type TextNode struct {
	Type     NodeType       `json:"type"`
	RawType  string         `json:"raw_type,omitempty"`
	Text     string         `json:"text,omitempty"`
	URL      string         `json:"url,omitempty"`
	Image    *ImageRef      `json:"image,omitempty"`
	Images   []ImageRef     `json:"images,omitempty"`
	Embed    *Embed         `json:"embed,omitempty"`
	Article  *LinkedArticle `json:"article,omitempty"`
	Ordered  bool           `json:"ordered,omitempty"`
	Children []TextNode     `json:"children,omitempty"`
}

// CountNodes returns the number of nodes in the forest, children included.
func CountNodes(nodes []TextNode) int {
	n := 0
	for i := range nodes {
		n += 1 + CountNodes(nodes[i].Children)
	}
	return n
}

// PlainText flattens the forest into text, one line per leaf block.
func PlainText(nodes []TextNode) string {
	var b strings.Builder
	var walk func([]TextNode)
	walk = func(ns []TextNode) {
		for i := range ns {
			if ns[i].Text != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(ns[i].Text)
			}
			walk(ns[i].Children)
		}
	}
	walk(nodes)
	return b.String()
}
