package restxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// Decode parses an XML document into the generic record convention shared
// with JSON adapters: attributes become "@name" keys, element text becomes
// "#text" when the element also carries attributes or children, repeated
// sibling elements collect into a list, and a text-only element becomes a
// plain string.
func Decode(data []byte) (map[string]any, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse XML: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		value, err := decodeElement(decoder, start)
		if err != nil {
			return nil, err
		}
		return map[string]any{start.Name.Local: value}, nil
	}
}

// decodeElement consumes tokens up to the matching end tag and returns
// either a string (text-only element) or a map.
func decodeElement(decoder *xml.Decoder, start xml.StartElement) (any, error) {
	node := map[string]any{}
	for _, attr := range start.Attr {
		node["@"+attr.Name.Local] = attr.Value
	}

	var text strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("parse XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(decoder, t)
			if err != nil {
				return nil, err
			}
			addChild(node, t.Name.Local, child)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			content := strings.TrimSpace(text.String())
			if len(node) == 0 {
				return content, nil
			}
			if content != "" {
				node["#text"] = content
			}
			return node, nil
		}
	}
}

// addChild stores a child under its element name, promoting to a list on
// the second occurrence of the same name.
func addChild(node map[string]any, name string, child any) {
	existing, ok := node[name]
	if !ok {
		node[name] = child
		return
	}
	if list, ok := existing.([]any); ok {
		node[name] = append(list, child)
		return
	}
	node[name] = []any{existing, child}
}
