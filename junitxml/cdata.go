package junitxml

import "strings"

const cdataEnd = "]]>"

// EscapeCDATA wraps content in CDATA sections so that arbitrary diagnostic
// text, including text containing the CDATA terminator itself, survives XML
// serialization. Every occurrence of "]]>" is broken across two adjacent
// sections ("]]" ends one, ">" opens the next), so concatenating the
// sections in any conformant parser reassembles the original text exactly.
// Zero-length sections are never emitted.
func EscapeCDATA(content string) string {
	parts := strings.Split(content, cdataEnd)

	var b strings.Builder
	for i, part := range parts {
		last := i == len(parts)-1
		if !last {
			part += "]]"
		}
		if part != "" {
			b.WriteString("<![CDATA[")
			b.WriteString(part)
			b.WriteString(cdataEnd)
		}
		if !last {
			b.WriteString("<![CDATA[>")
			b.WriteString(cdataEnd)
		}
	}
	return b.String()
}
