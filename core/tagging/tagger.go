// ABOUTME: Attribute tagger annotates HTML fragments with Matomo content tracking attributes
// ABOUTME: Parses fragments in a detached container so no document wrapper leaks into output

package tagging

import (
	"bytes"
	"strings"

	"mai-analytics-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Tracking attribute names read by the Matomo content tracker
const (
	AttrTrackContent = "data-track-content"
	AttrContentName  = "data-content-name"
	AttrContentPiece = "data-content-piece"
)

const actionSelector = `a, button, input[type="submit"]`

// Tagger adds content tracking attributes to HTML fragments
type Tagger struct {
	logger interfaces.Logger
}

// NewTagger creates a new tagger. A nil logger discards debug output.
func NewTagger(logger interfaces.Logger) *Tagger {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Tagger{logger: logger}
}

var defaultTagger = NewTagger(nil)

// Tag annotates fragment with name using a tagger that does not log
func Tag(fragment, name string) string {
	return defaultTagger.Tag(fragment, name)
}

// Tag marks the top-level elements of fragment as a tracked content block named name
// and labels every link, button and submit input inside it with a content piece.
//
// Marker and name attributes already present anywhere in the fragment are replaced,
// so when tracked blocks nest the block tagged last wins. Piece attributes are never
// overwritten. An empty fragment, an empty name or unparseable markup returns the
// fragment unchanged.
func (t *Tagger) Tag(fragment, name string) string {
	if fragment == "" || name == "" {
		return fragment
	}

	container, err := parseFragment(fragment)
	if err != nil {
		t.logger.Debug("Fragment could not be parsed", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return fragment
	}

	top := topLevelElements(container)
	if len(top) == 0 {
		return fragment
	}

	stripTracking(container)

	for _, n := range top {
		setAttr(n, AttrTrackContent, "")
		setAttr(n, AttrContentName, name)
	}

	pieces := addPieces(container)

	out, err := renderChildren(container)
	if err != nil {
		t.logger.Debug("Fragment could not be rendered", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		return fragment
	}

	t.logger.Debug("Tagged content block", map[string]interface{}{
		"name":     name,
		"elements": len(top),
		"pieces":   pieces,
	})

	return out
}

// parseFragment parses markup as children of a detached element. Table parts
// get a table context so their start tags survive; everything else gets a div.
func parseFragment(fragment string) (*html.Node, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), contextFor(fragment))
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		container.AppendChild(n)
	}
	return container, nil
}

// tableContexts maps table parts to the element they may appear in
var tableContexts = map[atom.Atom]atom.Atom{
	atom.Tr:       atom.Tbody,
	atom.Td:       atom.Tr,
	atom.Th:       atom.Tr,
	atom.Tbody:    atom.Table,
	atom.Thead:    atom.Table,
	atom.Tfoot:    atom.Table,
	atom.Caption:  atom.Table,
	atom.Colgroup: atom.Table,
	atom.Col:      atom.Colgroup,
}

// contextFor picks the parse context from the first top-level start tag
func contextFor(fragment string) *html.Node {
	context := atom.Div
	z := html.NewTokenizer(strings.NewReader(fragment))
scan:
	for {
		switch z.Next() {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if parent, ok := tableContexts[atom.Lookup(name)]; ok {
				context = parent
			}
			break scan
		case html.TextToken:
			if strings.TrimSpace(string(z.Text())) != "" {
				break scan
			}
		case html.CommentToken, html.DoctypeToken:
		default:
			break scan
		}
	}
	return &html.Node{Type: html.ElementNode, Data: context.String(), DataAtom: context}
}

// topLevelElements returns the element nodes that receive the marker.
// A lone top-level node is tagged when it is an element; otherwise every
// element sibling is, and text or comment nodes are skipped.
func topLevelElements(container *html.Node) []*html.Node {
	first := container.FirstChild
	if first != nil && first.NextSibling == nil {
		if first.Type == html.ElementNode {
			return []*html.Node{first}
		}
		return nil
	}

	var elements []*html.Node
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			elements = append(elements, c)
		}
	}
	return elements
}

// stripTracking removes marker and name attributes from every descendant of root
func stripTracking(root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (hasAttr(n, AttrTrackContent) || hasAttr(n, AttrContentName)) {
			removeAttr(n, AttrTrackContent)
			removeAttr(n, AttrContentName)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
}

// addPieces sets the content piece on action elements and returns how many were set
func addPieces(container *html.Node) int {
	count := 0
	doc := goquery.NewDocumentFromNode(container)

	doc.Find(actionSelector).Each(func(_ int, s *goquery.Selection) {
		if _, exists := s.Attr(AttrContentPiece); exists {
			return
		}

		var piece string
		if goquery.NodeName(s) == "input" {
			piece = s.AttrOr("value", "")
		} else {
			piece = s.Text()
		}

		piece = strings.TrimSpace(piece)
		if piece == "" {
			return
		}

		s.SetAttr(AttrContentPiece, piece)
		count++
	})

	return count
}

// renderChildren serializes the children of container without the container itself.
// Attribute values are escaped once here.
func renderChildren(container *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}
