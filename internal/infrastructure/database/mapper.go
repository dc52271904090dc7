package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"l10nbot/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// messageRow mirrors one row of the messages table; both backends scan into it.
type messageRow struct {
	ID                int64
	ContextID         int64
	MessageID         string
	Source            string
	OldSource         string
	Comment           string
	ExtraComment      string
	TranslatorComment string
	Translation       string
	Numerus           bool
	NumerusForms      string
	Type              string
}

type locationRow struct {
	MessageID int64
	File      string
	Line      int
}

func encodeForms(forms []string) (string, error) {
	if len(forms) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(forms)
	if err != nil {
		return "", fmt.Errorf("encode numerus forms: %w", err)
	}
	return string(b), nil
}

func decodeForms(s string) ([]string, error) {
	var forms []string
	if err := json.Unmarshal([]byte(s), &forms); err != nil {
		return nil, fmt.Errorf("decode numerus forms: %w", err)
	}
	if len(forms) == 0 {
		return nil, nil
	}
	return forms, nil
}

func messageToDomain(r messageRow) (entities.Message, error) {
	forms, err := decodeForms(r.NumerusForms)
	if err != nil {
		return entities.Message{}, err
	}
	return entities.Message{
		ID:                r.MessageID,
		Source:            r.Source,
		OldSource:         r.OldSource,
		Comment:           r.Comment,
		ExtraComment:      r.ExtraComment,
		TranslatorComment: r.TranslatorComment,
		Translation:       r.Translation,
		Numerus:           r.Numerus,
		NumerusForms:      forms,
		Type:              r.Type,
	}, nil
}

// assemble rebuilds the ordered context/message/location tree. Rows must be
// sorted by position; contextIDs lists context ids in catalog order.
func assemble(cat *entities.Catalog, contextIDs []int64, contexts []entities.Context, messages []messageRow, locations []locationRow) error {
	ctxIndex := make(map[int64]int, len(contextIDs))
	for i, id := range contextIDs {
		ctxIndex[id] = i
	}
	type msgPos struct{ ctx, msg int }
	msgIndex := make(map[int64]msgPos, len(messages))
	for _, r := range messages {
		ci, ok := ctxIndex[r.ContextID]
		if !ok {
			continue
		}
		m, err := messageToDomain(r)
		if err != nil {
			return err
		}
		contexts[ci].Messages = append(contexts[ci].Messages, m)
		msgIndex[r.ID] = msgPos{ctx: ci, msg: len(contexts[ci].Messages) - 1}
	}
	for _, l := range locations {
		p, ok := msgIndex[l.MessageID]
		if !ok {
			continue
		}
		m := &contexts[p.ctx].Messages[p.msg]
		m.Locations = append(m.Locations, entities.Location{File: l.File, Line: l.Line})
	}
	for i := range contexts {
		if contexts[i].Messages == nil {
			contexts[i].Messages = []entities.Message{}
		}
	}
	cat.Contexts = contexts
	return nil
}
