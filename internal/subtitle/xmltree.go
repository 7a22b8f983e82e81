package subtitle

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// xmlNode is a generic element tree. Children keep document order and
// Inner holds the raw markup between the element's tags.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Inner    []byte     `xml:",innerxml"`
	Children []xmlNode  `xml:",any"`
}

func parseXMLTree(data []byte) (*xmlNode, error) {
	d := newXMLDecoder(data)
	var root xmlNode
	if err := d.Decode(&root); err != nil {
		return nil, err
	}
	return &root, nil
}

func newXMLDecoder(data []byte) *xml.Decoder {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Entity = xml.HTMLEntity
	d.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) {
		return r, nil
	}
	return d
}

// attr looks up an attribute by local name, ignoring its namespace.
func (n *xmlNode) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// find returns the first descendant (or n itself) with the given local name.
func (n *xmlNode) find(local string) *xmlNode {
	if n.XMLName.Local == local {
		return n
	}
	for i := range n.Children {
		if found := n.Children[i].find(local); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every descendant with the given local name in document
// order, n excluded.
func (n *xmlNode) findAll(local string) []*xmlNode {
	var out []*xmlNode
	var walk func(*xmlNode)
	walk = func(node *xmlNode) {
		for i := range node.Children {
			child := &node.Children[i]
			if child.XMLName.Local == local {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(n)
	return out
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return strings.TrimSpace(a.Value)
		}
	}
	return ""
}
