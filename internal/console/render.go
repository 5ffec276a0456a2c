package console

import (
	"context"
	"fmt"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vincentbai/subwatch/internal/models"
)

type InteractionSource interface {
	Interactions(ctx context.Context) ([]models.Interaction, error)
}

// Renderer fills a container element with one block per interaction.
type Renderer struct {
	source InteractionSource
}

func NewRenderer(source InteractionSource) *Renderer {
	return &Renderer{source: source}
}

// Render fetches the interactions and replaces the container's children.
// The container is only cleared after a successful fetch, so on error it
// keeps whatever it held before.
func (r *Renderer) Render(ctx context.Context, container *html.Node) error {
	interactions, err := r.source.Interactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch interactions: %w", err)
	}

	clearChildren(container)
	for _, interaction := range interactions {
		container.AppendChild(InteractionBlock(interaction))
	}
	return nil
}

// InteractionBlock builds
//
//	<div class="interaction">
//	  <p class="post-id">Post ID: …</p><p class="title">…</p>
//	  <p class="content">…</p><p class="response">Response: …</p>
//	</div>
//
// Values are inserted as text nodes.
func InteractionBlock(interaction models.Interaction) *html.Node {
	block := element(atom.Div, "interaction")
	block.AppendChild(paragraph("post-id", "Post ID: "+interaction.PostID))
	block.AppendChild(paragraph("title", interaction.Title))
	block.AppendChild(paragraph("content", interaction.Content))
	block.AppendChild(paragraph("response", "Response: "+interaction.Response))
	return block
}

func element(tag atom.Atom, class string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
		Attr:     []html.Attribute{{Key: "class", Val: class}},
	}
}

func paragraph(class, text string) *html.Node {
	p := element(atom.P, class)
	p.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return p
}

func clearChildren(n *html.Node) {
	for child := n.FirstChild; child != nil; child = n.FirstChild {
		n.RemoveChild(child)
	}
}

// findByID returns the first element under n with the given id attribute.
func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findByID(child, id); found != nil {
			return found
		}
	}
	return nil
}
