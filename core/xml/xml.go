// Package xml provides pure Go XML validation, XPath querying, and
// formatting for score files. The command line surface uses it to inspect
// and validate CanorusML documents without loading the full score model.
//
// Security: entity expansion is disabled during validation, and the
// xmlquery parser builds on Go's encoding/xml, which does not fetch
// external entities.
package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/tactus/partita/core/encoding"
)

// Document represents a parsed XML document.
type Document struct {
	root *xmlquery.Node
}

// Node represents an XML node (element, text, attribute, etc.).
type Node struct {
	node *xmlquery.Node
}

// ValidationResult contains the result of XML validation.
type ValidationResult struct {
	Valid  bool
	Errors []ValidationError
}

// ValidationError represents a single validation error.
type ValidationError struct {
	Line    int
	Column  int
	Message string
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Parse parses XML data and returns a Document.
func Parse(data []byte) (*Document, error) {
	reader := bytes.NewReader(data)
	root, err := xmlquery.Parse(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// Validate checks data for well-formedness and returns a ValidationResult.
// Entity expansion is disabled.
func Validate(data []byte) ValidationResult {
	result := ValidationResult{Valid: true}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = map[string]string{}

	for {
		_, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			verr := ValidationError{Message: err.Error()}
			if syn, ok := err.(*xml.SyntaxError); ok {
				verr.Line = syn.Line
				verr.Message = syn.Msg
			}
			result.Valid = false
			result.Errors = append(result.Errors, verr)
			break
		}
	}

	return result
}

// Format formats/pretty-prints XML data.
func Format(data []byte, opts FormatOptions) ([]byte, error) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := formatNode(&buf, doc.root, 0, opts.Indent); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// formatNode recursively formats an XML node.
func formatNode(w *bytes.Buffer, n *xmlquery.Node, depth int, indent string) error {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if err := formatNode(w, child, depth, indent); err != nil {
				return err
			}
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		for _, attr := range n.Attr {
			w.WriteString(" ")
			w.WriteString(attr.Name.Local)
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		writeIndent(w, depth, indent)
		w.WriteString("<")
		if n.Prefix != "" {
			w.WriteString(n.Prefix)
			w.WriteString(":")
		}
		w.WriteString(n.Data)

		for _, attr := range n.Attr {
			w.WriteString(" ")
			if attr.Name.Space != "" {
				w.WriteString("xmlns:")
				w.WriteString(attr.Name.Local)
			} else if attr.Name.Local != "" {
				w.WriteString(attr.Name.Local)
			}
			w.WriteString("=\"")
			w.WriteString(encoding.EscapeXMLAttr(attr.Value))
			w.WriteString("\"")
		}

		hasChildren := n.FirstChild != nil
		hasElementChildren := false
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode {
				hasElementChildren = true
				break
			}
		}

		if !hasChildren {
			w.WriteString("/>\n")
		} else {
			w.WriteString(">")
			if hasElementChildren {
				w.WriteString("\n")
			}

			for child := n.FirstChild; child != nil; child = child.NextSibling {
				if child.Type == xmlquery.ElementNode {
					if err := formatNode(w, child, depth+1, indent); err != nil {
						return err
					}
				} else if child.Type == xmlquery.TextNode {
					text := strings.TrimSpace(child.Data)
					if text != "" {
						if hasElementChildren {
							writeIndent(w, depth+1, indent)
						}
						w.WriteString(encoding.EscapeXMLText(child.Data))
						if hasElementChildren {
							w.WriteString("\n")
						}
					}
				} else if child.Type == xmlquery.CharDataNode {
					w.WriteString("<![CDATA[")
					w.WriteString(child.Data)
					w.WriteString("]]>")
				}
			}

			if hasElementChildren {
				writeIndent(w, depth, indent)
			}
			w.WriteString("</")
			if n.Prefix != "" {
				w.WriteString(n.Prefix)
				w.WriteString(":")
			}
			w.WriteString(n.Data)
			w.WriteString(">\n")
		}

	case xmlquery.TextNode:
		text := strings.TrimSpace(n.Data)
		if text != "" {
			w.WriteString(encoding.EscapeXMLText(text))
		}

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}

	return nil
}

func writeIndent(w *bytes.Buffer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// XPath executes an XPath query and returns matching nodes.
func (d *Document) XPath(expr string) ([]*Node, error) {
	_, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	nodes, err := xmlquery.QueryAll(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}

	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result, nil
}

// XPathFirst executes an XPath query and returns the first matching node,
// or nil when nothing matches.
func (d *Document) XPathFirst(expr string) (*Node, error) {
	_, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath: %w", err)
	}

	node, err := xmlquery.Query(d.root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query failed: %w", err)
	}
	if node == nil {
		return nil, nil
	}
	return &Node{node: node}, nil
}

// Serialize converts the document back to XML bytes.
func (d *Document) Serialize() []byte {
	if d.root == nil {
		return nil
	}
	return []byte(d.root.OutputXML(true))
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns the text content of the node.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// InnerText returns all text content of the node and its descendants.
func (n *Node) InnerText() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// InnerXML returns the inner XML of the node.
func (n *Node) InnerXML() string {
	if n.node == nil {
		return ""
	}
	var buf bytes.Buffer
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		buf.WriteString(child.OutputXML(true))
	}
	return buf.String()
}

// Children returns the child element nodes.
func (n *Node) Children() []*Node {
	if n.node == nil {
		return nil
	}

	var children []*Node
	for child := n.node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			children = append(children, &Node{node: child})
		}
	}
	return children
}

// Attributes returns all attributes of the node.
func (n *Node) Attributes() map[string]string {
	if n.node == nil {
		return nil
	}

	attrs := make(map[string]string)
	for _, attr := range n.node.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}
