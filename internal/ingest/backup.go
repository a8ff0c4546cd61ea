// Package ingest reads exported SMS backups and turns them into inbound
// message events for the pipeline. Backups use the common XML export format:
// a <smses> root with one <sms> element per message.
package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dvignesh/smsledger/internal/domain"
)

// backupMessage is one <sms> element. Date is epoch milliseconds as a string.
type backupMessage struct {
	Address string `xml:"address,attr"`
	Body    string `xml:"body,attr"`
	Date    string `xml:"date,attr"`
}

type backup struct {
	XMLName  xml.Name        `xml:"smses"`
	Messages []backupMessage `xml:"sms"`
}

// DecodeBackup parses a backup XML stream into message events. Messages with
// an unreadable timestamp are dropped with a count rather than failing the
// whole import.
func DecodeBackup(r io.Reader) ([]domain.Message, int, error) {
	var b backup
	if err := xml.NewDecoder(r).Decode(&b); err != nil {
		return nil, 0, fmt.Errorf("ingest: decode backup xml: %w", err)
	}

	messages := make([]domain.Message, 0, len(b.Messages))
	dropped := 0
	for _, m := range b.Messages {
		millis, err := strconv.ParseInt(m.Date, 10, 64)
		if err != nil {
			dropped++
			continue
		}
		messages = append(messages, domain.Message{
			Sender:     m.Address,
			Body:       m.Body,
			ReceivedAt: time.UnixMilli(millis),
		})
	}
	return messages, dropped, nil
}
