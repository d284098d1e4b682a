package decode

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html"

	"newsfeed/internal/domain/entity"
)

// NodesFromHTML derives a rich-text tree from an HTML fragment. It is used when
// the backend sends text_html without text_items. Block elements map onto node
// types; anything unrecognized becomes an unknown node that keeps its text.
func NodesFromHTML(fragment string) []entity.TextNode {
	if strings.TrimSpace(fragment) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	return htmlChildren(doc.Find("body"))
}

func htmlChildren(sel *goquery.Selection) []entity.TextNode {
	var out []entity.TextNode
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		out = append(out, htmlNodes(c)...)
	})
	return out
}

// htmlNodes maps one HTML node. A text block holding links, images or frames
// is split into its inline nodes so every piece of text appears once.
func htmlNodes(s *goquery.Selection) []entity.TextNode {
	switch goquery.NodeName(s) {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
		if s.Find("img, a, iframe").Length() > 0 {
			return htmlChildren(s)
		}
	}
	if n, ok := htmlNode(s); ok {
		return []entity.TextNode{n}
	}
	return nil
}

func htmlNode(s *goquery.Selection) (entity.TextNode, bool) {
	node := s.Get(0)
	switch node.Type {
	case html.TextNode:
		text := strings.TrimSpace(node.Data)
		if text == "" {
			return entity.TextNode{}, false
		}
		return entity.TextNode{Type: entity.NodeText, Text: text}, true
	case html.ElementNode:
	default:
		return entity.TextNode{}, false
	}

	switch goquery.NodeName(s) {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "li":
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return entity.TextNode{}, false
		}
		return entity.TextNode{Type: entity.NodeText, Text: text}, true
	case "br":
		return entity.TextNode{}, false
	case "img":
		src, _ := s.Attr("src")
		if src == "" {
			return entity.TextNode{}, false
		}
		alt, _ := s.Attr("alt")
		return entity.TextNode{Type: entity.NodeImage, Image: &entity.ImageRef{ID: uuid.NewString(), Title: alt, Thumb: src}}, true
	case "a":
		href, _ := s.Attr("href")
		return entity.TextNode{Type: entity.NodeLink, URL: href, Text: strings.TrimSpace(s.Text())}, true
	case "ul", "ol":
		return entity.TextNode{Type: entity.NodeList, Ordered: goquery.NodeName(s) == "ol", Children: htmlChildren(s)}, true
	case "blockquote":
		children := htmlChildren(s)
		if len(children) == 0 {
			return entity.TextNode{}, false
		}
		return entity.TextNode{Type: entity.NodeQuote, Children: children}, true
	case "iframe":
		src, _ := s.Attr("src")
		return entity.TextNode{Type: entity.NodeEmbed, Embed: &entity.Embed{Type: "iframe", URL: src}}, true
	case "script", "style":
		return entity.TextNode{}, false
	}
	return entity.TextNode{
		Type:    entity.NodeUnknown,
		RawType: goquery.NodeName(s),
		Text:    strings.TrimSpace(s.Text()),
	}, true
}
