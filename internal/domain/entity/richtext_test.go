package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNodeType(t *testing.T) {
	tests := []struct {
		tag  string
		want NodeType
		ok   bool
	}{
		{"text", NodeText, true},
		{"Paragraph", NodeText, true},
		{"linked_article", NodeLinkedArticle, true},
		{"news", NodeLinkedArticle, true},
		{" quote ", NodeQuote, true},
		{"carousel", NodeUnknown, false},
		{"", NodeUnknown, false},
	}
	for _, tt := range tests {
		got, ok := ParseNodeType(tt.tag)
		assert.Equal(t, tt.want, got, tt.tag)
		assert.Equal(t, tt.ok, ok, tt.tag)
	}
}

func TestCountNodesAndPlainText(t *testing.T) {
	body := []TextNode{
		{Type: NodeText, Text: "First"},
		{Type: NodeList, Children: []TextNode{
			{Type: NodeText, Text: "one"},
			{Type: NodeText, Text: "two"},
		}},
		{Type: NodeImage, Image: &ImageRef{Thumb: "t.jpg"}},
		{Type: NodeUnknown, RawType: "carousel", Text: "kept"},
	}

	assert.Equal(t, 6, CountNodes(body))
	assert.Equal(t, "First\none\ntwo\nkept", PlainText(body))
	assert.Zero(t, CountNodes(nil))
}

func TestNodeType_IsComposite(t *testing.T) {
	assert.True(t, NodeList.IsComposite())
	assert.True(t, NodeUnknown.IsComposite())
	assert.True(t, NodeQuote.IsComposite())
	assert.False(t, NodeImage.IsComposite())
	assert.False(t, NodeLink.IsComposite())
	assert.False(t, NodeText.IsComposite())
}
