// Package model contains domain models passed between layers.
package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// TeamSize is the number of players per side.
const TeamSize = 2

// CourtSlots is the number of slots on a court: two teams of two.
const CourtSlots = 4

// Legacy session files carry naive local timestamps in these layouts.
var legacyTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Player is a roster entry. Name is the unique key within a session.
type Player struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Team is a pair of player names. An empty string marks a vacant spot.
type Team [TeamSize]string

// Contains reports whether name occupies either spot.
func (t Team) Contains(name string) bool {
	return name != "" && (t[0] == name || t[1] == name)
}

// Complete reports whether both spots are filled.
func (t Team) Complete() bool {
	return t[0] != "" && t[1] != ""
}

// Equal reports whether both teams hold the same players, in any order.
func (t Team) Equal(other Team) bool {
	return (t[0] == other[0] && t[1] == other[1]) || (t[0] == other[1] && t[1] == other[0])
}

// GameRecord captures one finished game.
type GameRecord struct {
	ID       string
	PlayedAt time.Time
	Court    int
	Team1    Team
	Team2    Team
	Winners  Team
}

// Participants returns every non-empty player name from both teams.
func (r GameRecord) Participants() []string {
	out := make([]string, 0, CourtSlots)
	for _, t := range []Team{r.Team1, r.Team2} {
		for _, name := range t {
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// gameRecordWire is the serialized shape of a GameRecord. The id may be
// absent in files written by older versions.
type gameRecordWire struct {
	ID        string `json:"id,omitempty"`
	Timestamp string `json:"timestamp"`
	Court     int    `json:"court"`
	Team1     Team   `json:"team1"`
	Team2     Team   `json:"team2"`
	Winners   Team   `json:"winning_team"`
}

// MarshalJSON encodes the record in the session file format.
func (r GameRecord) MarshalJSON() ([]byte, error) {
	w := gameRecordWire{
		ID:        r.ID,
		Timestamp: r.PlayedAt.Format(time.RFC3339Nano),
		Court:     r.Court,
		Team1:     r.Team1,
		Team2:     r.Team2,
		Winners:   r.Winners,
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the session file format. Timestamps without a
// zone, as written by older sessions, are read as local time.
func (r *GameRecord) UnmarshalJSON(data []byte) error {
	var w gameRecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	ts, err := parseTimestamp(w.Timestamp)
	if err != nil {
		return err
	}
	r.ID = w.ID
	r.PlayedAt = ts
	r.Court = w.Court
	r.Team1 = w.Team1
	r.Team2 = w.Team2
	r.Winners = w.Winners
	return nil
}

func parseTimestamp(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts, nil
	}
	for _, layout := range legacyTimestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse game timestamp %q: unrecognized format", s)
}
