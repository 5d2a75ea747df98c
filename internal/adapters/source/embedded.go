package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/okian/eventfacets/internal/domain/model"
	"golang.org/x/net/html"
)

// EmbeddedElementID is the id of the script element carrying the payload.
const EmbeddedElementID = "events-data"

// Embedded is the event list shipped inside the events page so the default
// season renders without a network round trip.
type Embedded interface {
	Events() ([]model.Event, error)
}

// EmbeddedFile reads the payload from disk on every call. The file is either a
// bare JSON array or an HTML document containing the events-data element.
type EmbeddedFile struct {
	Path string
}

// Events implements Embedded.
func (e EmbeddedFile) Events() ([]model.Event, error) {
	raw, err := os.ReadFile(e.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedded, err)
	}
	return ParseEmbedded(raw)
}

// EmbeddedBytes serves a payload held in memory.
type EmbeddedBytes []byte

// Events implements Embedded.
func (b EmbeddedBytes) Events() ([]model.Event, error) {
	return ParseEmbedded(b)
}

// ParseEmbedded decodes raw as JSON, or as HTML when it does not start with
// a JSON array.
func ParseEmbedded(raw []byte) ([]model.Event, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		return decodeEmbedded(trimmed)
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedded, err)
	}
	node := findByID(doc, EmbeddedElementID)
	if node == nil {
		return nil, fmt.Errorf("%w: no #%s element", ErrEmbedded, EmbeddedElementID)
	}

	var text strings.Builder
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return decodeEmbedded([]byte(text.String()))
}

func decodeEmbedded(raw []byte) ([]model.Event, error) {
	events, err := Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedded, err)
	}
	return events, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
