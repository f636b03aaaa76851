package models

import (
	"time"
)

// TournamentMode is the team size of a match
type TournamentMode string

const (
	ModeSolo  TournamentMode = "SOLO"
	ModeDuo   TournamentMode = "DUO"
	ModeSquad TournamentMode = "SQUAD"
)

// TournamentStatus is the lifecycle state of a tournament
type TournamentStatus string

const (
	TournamentOpen      TournamentStatus = "OPEN"
	TournamentFull      TournamentStatus = "FULL"
	TournamentCompleted TournamentStatus = "COMPLETED"
	TournamentCancelled TournamentStatus = "CANCELLED"
)

// Tournament represents a scheduled match. EntryFee, PrizePool and PerKill
// are in paise. FilledSlots always equals the participant row count; both
// are mutated in the same transaction on join.
type Tournament struct {
	Key         string           `db:"key" json:"key"`
	Title       string           `db:"title" json:"title"`
	Map         string           `db:"map" json:"map"`
	Mode        TournamentMode   `db:"mode" json:"mode"`
	EntryFee    int64            `db:"entry_fee" json:"entry_fee"`
	PrizePool   int64            `db:"prize_pool" json:"prize_pool"`
	PerKill     int64            `db:"per_kill" json:"per_kill"`
	StartsAt    time.Time        `db:"starts_at" json:"starts_at"`
	MaxSlots    int              `db:"max_slots" json:"max_slots"`
	FilledSlots int              `db:"filled_slots" json:"filled_slots"`
	Status      TournamentStatus `db:"status" json:"status"`
	RoomID      string           `db:"room_id" json:"room_id"`
	RoomPass    string           `db:"room_pass" json:"room_pass"`
	ImageURL    string           `db:"image_url" json:"image_url"`
	GameLink    string           `db:"game_link" json:"game_link"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// IsFull reports whether no slots remain
func (t *Tournament) IsFull() bool {
	return t.FilledSlots >= t.MaxSlots
}
