package utils

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"docuhub/models"
)

// Neutral element kinds produced by the export transform. Export back-ends
// (PDF, DOCX, ...) render this sequence without knowing where the content
// came from.
const (
	ElementParagraph = "paragraph"
	ElementHeading1  = "heading1"
	ElementHeading2  = "heading2"
	ElementHeading3  = "heading3"
	ElementListItem  = "list-item"
	ElementLineBreak = "line-break"
)

// List kinds for list-item elements.
const (
	ListOrdered   = "ordered"
	ListUnordered = "unordered"
)

// ExportElement is one normalized element of the neutral sequence.
type ExportElement struct {
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Align     string `json:"align,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	FontSize  int    `json:"font_size,omitempty"` // explicit pixel size, 0 = inherit
	ListKind  string `json:"list_kind,omitempty"`
	Position  int    `json:"position,omitempty"` // 1-based ordinal within its list
}

// ExportToElements converts a document's content into the neutral element
// sequence. It never raises past its boundary: any internal failure yields
// a single placeholder element so downstream rendering always has output.
func ExportToElements(doc *models.Document) (elements []ExportElement) {
	defer func() {
		if r := recover(); r != nil {
			LogError("export_transform_panic", fmt.Errorf("%v", r), map[string]interface{}{
				"document_id": doc.ID,
			})
			elements = placeholderElements()
		}
	}()

	switch {
	case doc.ContentType == models.ContentTypeStructured && len(doc.ContentBlocks) > 0:
		return blocksToElements(doc.ContentBlocks)
	case doc.ContentType == models.ContentTypeHTML:
		return htmlToElements(doc.Content)
	default:
		return plainToElements(doc.Content)
	}
}

func placeholderElements() []ExportElement {
	return []ExportElement{{Kind: ElementParagraph, Text: "[content could not be rendered]"}}
}

// plainToElements emits one paragraph per non-empty line.
func plainToElements(content string) []ExportElement {
	var out []ExportElement
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, ExportElement{Kind: ElementParagraph, Text: line})
	}
	return out
}

var blockKinds = map[string]string{
	"paragraph": ElementParagraph,
	"heading1":  ElementHeading1,
	"heading2":  ElementHeading2,
	"heading3":  ElementHeading3,
	"list-item": ElementListItem,
	"code":      ElementParagraph,
	"quote":     ElementParagraph,
}

// blocksToElements flattens structured blocks. Each block becomes one
// element; span texts are concatenated and a style applies to the element
// when the block sets it or every span agrees on it. Consecutive list-item
// blocks share an ordinal run.
func blocksToElements(blocks []models.ContentBlock) []ExportElement {
	var out []ExportElement
	ordinal := 0
	for _, block := range blocks {
		kind, ok := blockKinds[block.Type]
		if !ok {
			kind = ElementParagraph
		}

		text := block.Text
		if len(block.Content) > 0 {
			var sb strings.Builder
			for _, span := range block.Content {
				sb.WriteString(span.Text)
			}
			text = sb.String()
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		el := ExportElement{Kind: kind, Text: text}
		el.Align = styleString(block.Styles, "textAlign")
		el.Bold = styleIs(block.Styles, "fontWeight", "bold") || allSpansHave(block.Content, "fontWeight", "bold")
		el.Italic = styleIs(block.Styles, "fontStyle", "italic") || allSpansHave(block.Content, "fontStyle", "italic")
		el.Underline = styleIs(block.Styles, "textDecoration", "underline") || allSpansHave(block.Content, "textDecoration", "underline")

		if size := styleFontSize(block.Styles); size > 0 {
			el.FontSize = size
		} else {
			// First span with an explicit size wins.
			for _, span := range block.Content {
				if size := styleFontSize(span.Styles); size > 0 {
					el.FontSize = size
					break
				}
			}
		}

		if kind == ElementListItem {
			ordinal++
			el.ListKind = ListUnordered
			el.Position = ordinal
		} else {
			ordinal = 0
		}
		out = append(out, el)
	}
	return out
}

func styleString(styles map[string]interface{}, key string) string {
	if styles == nil {
		return ""
	}
	if v, ok := styles[key].(string); ok {
		return v
	}
	return ""
}

func styleIs(styles map[string]interface{}, key, want string) bool {
	return styleString(styles, key) == want
}

func allSpansHave(spans []models.TextSpan, key, want string) bool {
	if len(spans) == 0 {
		return false
	}
	for _, span := range spans {
		if !styleIs(span.Styles, key, want) {
			return false
		}
	}
	return true
}

func styleFontSize(styles map[string]interface{}) int {
	if styles == nil {
		return 0
	}
	switch v := styles["fontSize"].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		return parsePixelSize(v)
	default:
		return 0
	}
}

// tags the HTML walker emits elements for, mapped to their kinds.
var htmlKinds = map[string]string{
	"p":          ElementParagraph,
	"div":        ElementParagraph,
	"span":       ElementParagraph,
	"blockquote": ElementParagraph,
	"pre":        ElementParagraph,
	"code":       ElementParagraph,
	"li":         ElementParagraph, // loose <li> outside a list container
	"strong":     ElementParagraph,
	"b":          ElementParagraph,
	"em":         ElementParagraph,
	"i":          ElementParagraph,
	"u":          ElementParagraph,
	"h1":         ElementHeading1,
	"h2":         ElementHeading2,
	"h3":         ElementHeading3,
}

// htmlToElements walks the parsed document tree. List containers enumerate
// their <li> children directly so ordinals and list kinds survive; every
// other element of interest surfaces its visible text with styling inferred
// from inline styles and semantic tags. Elements are deduplicated by
// (structural context, exact text) so nested tags that surface the same
// literal text produce one entry, while the same text inside and outside a
// list stays distinct.
func htmlToElements(content string) []ExportElement {
	root, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return placeholderElements()
	}

	seen := make(map[string]bool)
	var out []ExportElement

	emit := func(context string, el ExportElement) {
		key := context + "|" + el.Kind + "|" + el.Text
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, el)
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "head":
				return
			case "br":
				out = append(out, ExportElement{Kind: ElementLineBreak})
				return
			case "ul", "ol":
				listKind := ListUnordered
				if n.Data == "ol" {
					listKind = ListOrdered
				}
				position := 0
				for item := n.FirstChild; item != nil; item = item.NextSibling {
					if item.Type != html.ElementNode || item.Data != "li" {
						continue
					}
					text := nodeText(item)
					if text == "" {
						continue
					}
					position++
					el := ExportElement{
						Kind:     ElementListItem,
						Text:     text,
						ListKind: listKind,
						Position: position,
					}
					applyNodeStyles(&el, item)
					emit("list:"+listKind, el)
				}
				return
			default:
				if kind, ok := htmlKinds[n.Data]; ok {
					if text := nodeText(n); text != "" {
						el := ExportElement{Kind: kind, Text: text}
						applyNodeStyles(&el, n)
						emit("text", el)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// nodeText collects the visible text beneath a node, whitespace-collapsed.
// html.Parse already unescapes entities in text nodes.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func applyNodeStyles(el *ExportElement, n *html.Node) {
	style := parseInlineStyle(attrValue(n, "style"))

	switch n.Data {
	case "strong", "b":
		el.Bold = true
	case "em", "i":
		el.Italic = true
	case "u":
		el.Underline = true
	}
	// A semantic tag wrapping all of the element's text styles the whole
	// element, even though the tag sits on a descendant.
	if !el.Bold && textFullyWithin(n, "strong", "b") {
		el.Bold = true
	}
	if !el.Italic && textFullyWithin(n, "em", "i") {
		el.Italic = true
	}
	if !el.Underline && textFullyWithin(n, "u") {
		el.Underline = true
	}
	if style["font-weight"] == "bold" {
		el.Bold = true
	}
	if style["font-style"] == "italic" {
		el.Italic = true
	}
	if strings.Contains(style["text-decoration"], "underline") {
		el.Underline = true
	}
	if align := style["text-align"]; align != "" {
		el.Align = align
	}
	el.FontSize = findFontSize(n)
}

// textFullyWithin reports whether every visible text node beneath n sits
// inside one of the given tags. An element with no visible text is never
// considered covered.
func textFullyWithin(n *html.Node, tags ...string) bool {
	hasText := false
	var check func(node *html.Node, inside bool) bool
	check = func(node *html.Node, inside bool) bool {
		if node.Type == html.TextNode {
			if strings.TrimSpace(node.Data) == "" {
				return true
			}
			hasText = true
			return inside
		}
		if node.Type == html.ElementNode {
			for _, tag := range tags {
				if node.Data == tag {
					inside = true
					break
				}
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if !check(c, inside) {
				return false
			}
		}
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !check(c, false) {
			return false
		}
	}
	return hasText
}

// findFontSize returns the first explicit pixel font-size declared on the
// node or any descendant, depth first.
func findFontSize(n *html.Node) int {
	if n.Type == html.ElementNode {
		style := parseInlineStyle(attrValue(n, "style"))
		if size := parsePixelSize(style["font-size"]); size > 0 {
			return size
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if size := findFontSize(c); size > 0 {
			return size
		}
	}
	return 0
}

func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}

func parseInlineStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		if key == "" {
			continue
		}
		props[key] = strings.ToLower(strings.TrimSpace(parts[1]))
	}
	return props
}

func parsePixelSize(value string) int {
	value = strings.TrimSpace(value)
	if !strings.HasSuffix(value, "px") {
		return 0
	}
	size, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(value, "px")))
	if err != nil || size <= 0 {
		return 0
	}
	return size
}
