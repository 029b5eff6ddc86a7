package xmlmodel

import (
	"encoding/xml"
	"io"
	"strings"
)

// Load reads a single well-formed XML document from src and returns its
// Document root. Element order, attribute insertion order, and
// tail/between-element text are all preserved, and every Parent link is
// set before Load returns.
func Load(src string) (*Node, error) {
	return LoadReader(strings.NewReader(src))
}

// LoadReader is Load reading from an arbitrary io.Reader.
func LoadReader(r io.Reader) (*Node, error) {
	decoder := xml.NewDecoder(r)

	doc := &Node{Kind: KindDocument}
	stack := []*Node{doc}

	for {
		tok, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, wrapError(err)
		}

		top := stack[len(stack)-1]

		switch t := tok.(type) {
		case xml.StartElement:
			el := NewElement(t.Name.Local)
			for _, attr := range t.Attr {
				el.Attrs.Put(attr.Name.Local, attr.Value)
			}
			el.Parent = top
			top.Children = append(top.Children, el)
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if text := string(t); text != "" {
				child := NewText(text)
				child.Parent = top
				top.Children = append(top.Children, child)
			}

		case xml.Comment:
			child := &Node{Kind: KindComment, Value: string(t), Parent: top}
			top.Children = append(top.Children, child)

		case xml.ProcInst:
			child := &Node{Kind: KindPI, Name: t.Target, Value: string(t.Inst), Parent: top}
			top.Children = append(top.Children, child)
		}
	}

	return doc, nil
}
