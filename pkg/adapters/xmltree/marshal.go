package xmltree

import (
	"bytes"
	"encoding/xml"

	"github.com/aretw0/arbor/pkg/domain"
)

// Marshal renders root as an indented XML document.
// Text of an element that also has children picks up the indentation
// whitespace when parsed back; leaf text round-trips exactly.
func Marshal(root *domain.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := encode(enc, root); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encode(enc *xml.Encoder, n *domain.Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Tag}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Text.Valid && n.Text.Value != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text.Value)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}
