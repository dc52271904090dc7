// Package tsfile reads and writes Qt Linguist translation source (.ts) files.
package tsfile

import (
	"encoding/xml"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"l10nbot/internal/domain"
	"l10nbot/internal/domain/entities"
)

type tsDoc struct {
	XMLName        xml.Name    `xml:"TS"`
	Version        string      `xml:"version,attr"`
	Language       string      `xml:"language,attr"`
	SourceLanguage string      `xml:"sourcelanguage,attr"`
	Contexts       []tsContext `xml:"context"`
}

type tsContext struct {
	Name     string      `xml:"name"`
	Comment  string      `xml:"comment"`
	Messages []tsMessage `xml:"message"`
}

type tsMessage struct {
	ID                string        `xml:"id,attr"`
	Numerus           string        `xml:"numerus,attr"`
	Locations         []tsLocation  `xml:"location"`
	Source            string        `xml:"source"`
	OldSource         string        `xml:"oldsource"`
	Comment           string        `xml:"comment"`
	ExtraComment      string        `xml:"extracomment"`
	TranslatorComment string        `xml:"translatorcomment"`
	Translation       tsTranslation `xml:"translation"`
}

type tsTranslation struct {
	Type  string   `xml:"type,attr"`
	Text  string   `xml:",chardata"`
	Forms []string `xml:"numerusform"`
}

type tsLocation struct {
	Filename string `xml:"filename,attr"`
	Line     string `xml:"line,attr"`
}

// Decode parses a TS document into a catalog.
// Relative line numbers ("+3", "-2") are resolved against the previous
// location of the same file, as lupdate writes them in format 2.1.
func Decode(r io.Reader) (*entities.Catalog, error) {
	var doc tsDoc
	dec := xml.NewDecoder(r)
	dec.Strict = true
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidCatalog, err)
	}

	cat := &entities.Catalog{
		Version:        doc.Version,
		Language:       doc.Language,
		SourceLanguage: doc.SourceLanguage,
		Contexts:       make([]entities.Context, 0, len(doc.Contexts)),
	}
	lastLine := map[string]int{}
	for _, c := range doc.Contexts {
		if strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("%w: context without name", domain.ErrInvalidCatalog)
		}
		ctx := entities.Context{
			Name:     c.Name,
			Comment:  c.Comment,
			Messages: make([]entities.Message, 0, len(c.Messages)),
		}
		for _, m := range c.Messages {
			msg, err := toMessage(m, lastLine)
			if err != nil {
				return nil, fmt.Errorf("%w: context %s: %v", domain.ErrInvalidCatalog, c.Name, err)
			}
			ctx.Messages = append(ctx.Messages, msg)
		}
		cat.Contexts = append(cat.Contexts, ctx)
	}
	return cat, nil
}

func toMessage(m tsMessage, lastLine map[string]int) (entities.Message, error) {
	if !domain.ValidType(m.Translation.Type) {
		return entities.Message{}, fmt.Errorf("source %q: unknown translation type %q", m.Source, m.Translation.Type)
	}
	msg := entities.Message{
		ID:                m.ID,
		Source:            m.Source,
		OldSource:         m.OldSource,
		Comment:           m.Comment,
		ExtraComment:      m.ExtraComment,
		TranslatorComment: m.TranslatorComment,
		Numerus:           m.Numerus == "yes",
		Type:              m.Translation.Type,
	}
	if msg.Numerus {
		msg.NumerusForms = m.Translation.Forms
	} else {
		msg.Translation = m.Translation.Text
	}
	for _, l := range m.Locations {
		loc := entities.Location{File: l.Filename}
		switch {
		case l.Line == "":
		case strings.HasPrefix(l.Line, "+") || strings.HasPrefix(l.Line, "-"):
			delta, err := strconv.Atoi(l.Line)
			if err != nil {
				return entities.Message{}, fmt.Errorf("source %q: bad line %q", m.Source, l.Line)
			}
			loc.Line = lastLine[l.Filename] + delta
		default:
			n, err := strconv.Atoi(l.Line)
			if err != nil {
				return entities.Message{}, fmt.Errorf("source %q: bad line %q", m.Source, l.Line)
			}
			loc.Line = n
		}
		if loc.Line != 0 {
			lastLine[l.Filename] = loc.Line
		}
		msg.Locations = append(msg.Locations, loc)
	}
	return msg, nil
}

// Load decodes the file name and names the catalog after it.
func Load(name string) (*entities.Catalog, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()
	cat, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	cat.Name = filepath.Base(name)
	return cat, nil
}

// LoadFS decodes every file of fsys matching pattern, in lexical order.
func LoadFS(fsys fs.FS, pattern string) ([]*entities.Catalog, error) {
	paths, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	out := make([]*entities.Catalog, 0, len(paths))
	for _, p := range paths {
		f, err := fsys.Open(p)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}
		cat, err := Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", p, err)
		}
		cat.Name = path.Base(p)
		out = append(out, cat)
	}
	return out, nil
}
