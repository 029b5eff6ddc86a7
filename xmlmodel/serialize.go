package xmlmodel

import "strings"

// Serialize renders n as well-formed XML: no declaration, self-closing
// empty elements, attributes in insertion order.
func Serialize(n *Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindDocument:
		for _, c := range n.Children {
			writeNode(b, c)
		}
	case KindText:
		b.WriteString(escapeText(n.Value))
	case KindAttribute:
		b.WriteString(escapeAttr(n.Value))
	case KindComment:
		b.WriteString("<!--")
		b.WriteString(n.Value)
		b.WriteString("-->")
	case KindPI:
		b.WriteString("<?")
		b.WriteString(n.Name)
		if n.Value != "" {
			b.WriteByte(' ')
			b.WriteString(n.Value)
		}
		b.WriteString("?>")
	case KindElement:
		b.WriteByte('<')
		b.WriteString(n.Name)
		if n.Attrs != nil {
			n.Attrs.ForEach(func(name, val string) {
				b.WriteByte(' ')
				b.WriteString(name)
				b.WriteString(`="`)
				b.WriteString(escapeAttr(val))
				b.WriteByte('"')
			})
		}
		if len(n.Children) == 0 {
			b.WriteString("/>")
			return
		}
		b.WriteByte('>')
		for _, c := range n.Children {
			writeNode(b, c)
		}
		b.WriteString("</")
		b.WriteString(n.Name)
		b.WriteByte('>')
	}
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = escapeText(s)
	s = strings.ReplaceAll(s, "\"", "&quot;")
	return s
}
