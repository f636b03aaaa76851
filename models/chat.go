package models

import (
	"sort"
	"strings"
	"time"
)

// ChatMessage is a message in a pairwise conversation. DeletedFor holds the
// uids the message is hidden from (per-user soft delete).
type ChatMessage struct {
	ID         int64     `db:"id" json:"id"`
	PairID     string    `db:"pair_id" json:"pair_id"`
	SenderID   string    `db:"sender_id" json:"sender_id"`
	Text       string    `db:"text" json:"text"`
	DeletedFor []string  `db:"deleted_for" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// ChatPairID derives the deterministic conversation key for two users:
// the uids sorted lexicographically and joined. Both participants compute
// the same key regardless of who opens the conversation.
func ChatPairID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "__")
}
