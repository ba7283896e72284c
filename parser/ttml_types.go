package parser

import (
	"encoding/xml"
	"strings"
)

type ttmlDocument struct {
	XMLName  xml.Name `xml:"tt"`
	Timing   string   `xml:"timing,attr"`
	Language string   `xml:"lang,attr"`
	Head     ttmlHead `xml:"head"`
	Body     ttmlBody `xml:"body"`
}

type ttmlHead struct {
	Metadata ttmlMetadata `xml:"metadata"`
}

type ttmlMetadata struct {
	Title  string      `xml:"title"`
	Agents []ttmlAgent `xml:"agent"`
}

type ttmlAgent struct {
	ID   string `xml:"id,attr"`
	Type string `xml:"type,attr"`
}

type ttmlBody struct {
	Divs       []ttmlDiv     `xml:"div"`
	Paragraphs []ttmlElement `xml:"p"`
}

type ttmlDiv struct {
	SongPart   string        `xml:"songPart,attr"`
	Paragraphs []ttmlElement `xml:"p"`
}

// ttmlElement is a <p> or <span>. Children are kept in document order so the
// whitespace between spans survives decoding.
type ttmlElement struct {
	Begin     string
	End       string
	Role      string
	Agent     string
	TextAlign string
	Nodes     []ttmlNode
}

// ttmlNode holds either character data or a child span.
type ttmlNode struct {
	Text string
	Span *ttmlElement
}

func (e *ttmlElement) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "begin":
			e.Begin = attr.Value
		case "end":
			e.End = attr.Value
		case "role":
			e.Role = attr.Value
		case "agent":
			e.Agent = attr.Value
		case "textAlign":
			e.TextAlign = attr.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "span":
				child := &ttmlElement{}
				if err := d.DecodeElement(child, &t); err != nil {
					return err
				}
				e.Nodes = append(e.Nodes, ttmlNode{Span: child})
			case "br":
				e.Nodes = append(e.Nodes, ttmlNode{Text: " "})
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.CharData:
			e.Nodes = append(e.Nodes, ttmlNode{Text: string(t)})
		case xml.EndElement:
			return nil
		}
	}
}

// hasSpans reports whether any direct child is a span.
func (e *ttmlElement) hasSpans() bool {
	for _, n := range e.Nodes {
		if n.Span != nil {
			return true
		}
	}
	return false
}

// text returns all character data below the element, nested spans included.
func (e *ttmlElement) text() string {
	var b strings.Builder
	for _, n := range e.Nodes {
		if n.Span != nil {
			b.WriteString(n.Span.text())
		} else {
			b.WriteString(n.Text)
		}
	}
	return b.String()
}

func (e *ttmlElement) isBackground() bool {
	return e.Role == "x-bg"
}
