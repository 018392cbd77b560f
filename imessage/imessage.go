// Package imessage loads an iMessage chat database (chat.db) into the
// canonical message model.
//
// Text resolution per row: decode the attributedBody typedstream first, fall
// back to the plain text column, and keep the message with empty text when
// both are missing; an attachment-only message is still a message. Decode
// failures never escape a row; only total unavailability of the database is
// an error.
package imessage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/sillydata/message-miner/message"
	"github.com/sillydata/message-miner/typedstream"
)

// ErrStorageUnavailable marks a chat database that cannot be opened or read
// at all. On macOS this usually means the caller lacks Full Disk Access;
// remediation guidance is the caller's concern.
var ErrStorageUnavailable = errors.New("imessage: chat database unavailable")

// appleEpoch anchors the database's raw timestamps: nanoseconds since
// 2001-01-01 UTC.
var appleEpoch = time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

const selectMessages = `
SELECT
	m.date,
	m.is_from_me,
	m.text,
	m.attributedBody,
	h.id
FROM message AS m
LEFT JOIN handle AS h ON m.handle_id = h.ROWID
ORDER BY m.date`

// Load reads every message row in original date order. The database handle
// is opened read-only and released before Load returns on every path.
func Load(ctx context.Context, path string) (*message.Corpus, error) {
	if ctx == nil {
		return nil, errors.New("imessage: Load: ctx is nil")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrStorageUnavailable, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, selectMessages)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var corpus message.Corpus
	for rows.Next() {
		var (
			rawDate int64
			fromMe  sql.NullInt64
			text    sql.NullString
			body    []byte
			contact sql.NullString
		)
		if err := rows.Scan(&rawDate, &fromMe, &text, &body, &contact); err != nil {
			return nil, fmt.Errorf("imessage: scan row: %w", err)
		}
		corpus.RowsRead++

		resolved, fellBack := resolveText(body, text.String)
		if fellBack {
			corpus.DecodeFallbacks++
		}

		dir := message.DirectionIncoming
		if fromMe.Int64 == 1 {
			dir = message.DirectionOutgoing
		}

		corpus.Messages = append(corpus.Messages, message.Message{
			Time:        appleEpoch.Add(time.Duration(rawDate)),
			Text:        resolved,
			Direction:   dir,
			ChannelKey:  contact.String,
			ChannelKind: message.KindNone,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("imessage: iterate rows: %w", err)
	}
	return &corpus, nil
}

// resolveText attempts the typedstream body first and reports whether the
// plain-text column (or "") had to stand in.
func resolveText(body []byte, plain string) (string, bool) {
	if len(body) > 0 {
		if s, ok := typedstream.Decode(body); ok && s != "" {
			return s, false
		}
	}
	return plain, true
}
