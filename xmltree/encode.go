package xmltree

import (
	"bufio"
	"encoding/xml"
	"io"
)

const header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Encode writes root and its descendants as XML, preceded by a standard
// declaration. Prefixes are written exactly as they were parsed.
func Encode(w io.Writer, root *Element) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(header); err != nil {
		return err
	}
	if err := encodeElement(bw, root); err != nil {
		return err
	}
	return bw.Flush()
}

func encodeElement(w *bufio.Writer, e *Element) error {
	w.WriteByte('<')
	w.WriteString(qualified(e.Prefix, e.Name.Local))
	for _, a := range e.Attrs {
		w.WriteByte(' ')
		w.WriteString(qualified(a.Prefix, a.Local))
		w.WriteString(`="`)
		if err := xml.EscapeText(w, []byte(a.Value)); err != nil {
			return err
		}
		w.WriteByte('"')
	}

	if e.Text == "" && len(e.Children) == 0 {
		_, err := w.WriteString("/>")
		return err
	}
	w.WriteByte('>')

	if e.Text != "" {
		if err := xml.EscapeText(w, []byte(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(w, c); err != nil {
			return err
		}
	}

	w.WriteString("</")
	w.WriteString(qualified(e.Prefix, e.Name.Local))
	_, err := w.WriteString(">")
	return err
}

func qualified(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
