package tsfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"l10nbot/internal/domain/entities"
)

const (
	indent1 = "    "
	indent2 = "        "
	indent3 = "            "
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&apos;",
)

// Encode writes cat in the layout produced by lupdate, so that decoding a
// lupdate file and encoding it again yields the same bytes.
func Encode(w io.Writer, cat *entities.Catalog) error {
	bw := bufio.NewWriter(w)
	version := cat.Version
	if version == "" {
		version = "2.1"
	}

	bw.WriteString("<?xml version=\"1.0\" encoding=\"utf-8\"?>\n<!DOCTYPE TS>\n")
	bw.WriteString("<TS version=\"" + escaper.Replace(version) + "\"")
	if cat.Language != "" {
		bw.WriteString(" language=\"" + escaper.Replace(cat.Language) + "\"")
	}
	if cat.SourceLanguage != "" {
		bw.WriteString(" sourcelanguage=\"" + escaper.Replace(cat.SourceLanguage) + "\"")
	}
	bw.WriteString(">\n")

	for i := range cat.Contexts {
		c := &cat.Contexts[i]
		bw.WriteString("<context>\n")
		element(bw, indent1, "name", c.Name)
		if c.Comment != "" {
			element(bw, indent1, "comment", c.Comment)
		}
		for j := range c.Messages {
			writeMessage(bw, &c.Messages[j])
		}
		bw.WriteString("</context>\n")
	}
	bw.WriteString("</TS>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write ts: %w", err)
	}
	return nil
}

func writeMessage(bw *bufio.Writer, m *entities.Message) {
	bw.WriteString(indent1 + "<message")
	if m.ID != "" {
		bw.WriteString(" id=\"" + escaper.Replace(m.ID) + "\"")
	}
	if m.Numerus {
		bw.WriteString(" numerus=\"yes\"")
	}
	bw.WriteString(">\n")

	for _, l := range m.Locations {
		bw.WriteString(indent2 + "<location filename=\"" + escaper.Replace(l.File) + "\"")
		if l.Line != 0 {
			bw.WriteString(" line=\"" + strconv.Itoa(l.Line) + "\"")
		}
		bw.WriteString("/>\n")
	}
	element(bw, indent2, "source", m.Source)
	if m.OldSource != "" {
		element(bw, indent2, "oldsource", m.OldSource)
	}
	if m.Comment != "" {
		element(bw, indent2, "comment", m.Comment)
	}
	if m.ExtraComment != "" {
		element(bw, indent2, "extracomment", m.ExtraComment)
	}
	if m.TranslatorComment != "" {
		element(bw, indent2, "translatorcomment", m.TranslatorComment)
	}

	bw.WriteString(indent2 + "<translation")
	if m.Type != "" {
		bw.WriteString(" type=\"" + m.Type + "\"")
	}
	bw.WriteString(">")
	if m.Numerus {
		bw.WriteString("\n")
		for _, f := range m.NumerusForms {
			element(bw, indent3, "numerusform", f)
		}
		bw.WriteString(indent2)
	} else {
		bw.WriteString(escaper.Replace(m.Translation))
	}
	bw.WriteString("</translation>\n")
	bw.WriteString(indent1 + "</message>\n")
}

func element(bw *bufio.Writer, indent, name, text string) {
	bw.WriteString(indent + "<" + name + ">" + escaper.Replace(text) + "</" + name + ">\n")
}
