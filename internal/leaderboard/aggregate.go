package leaderboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/gridiron/internal/ingest"
)

// TotalWeek labels the synthetic cumulative week.
const TotalWeek = "total"

// Options carries the lookup tables applied during aggregation. Nil maps
// disable the corresponding remapping.
type Options struct {
	BaseURL           string
	WeekRemapping     map[string]string
	TeamAbbreviations map[string]string
}

// Slot is one rendered roster slot in the response. Every field is text; the
// frontend renders them verbatim.
type Slot struct {
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	RosterSlot string `json:"roster_slot"`
	Multiplier string `json:"multiplier"`
	Team       string `json:"team"`
	Score      string `json:"score"`
	WeekScore  string `json:"week_score"`
	UserScore  string `json:"user_score"`
	ImgURL     string `json:"img_url"`
}

// UserWeek is one participant's summary within a week: their roster for that
// week and the week's total score, best score first in the containing slice.
type UserWeek struct {
	User      string `json:"user"`
	Roster    []Slot `json:"roster"`
	WeekScore string `json:"week_score"`
}

// Leaderboard maps a week label to its participants, sorted by week score
// descending.
type Leaderboard map[string][]UserWeek

// record is a working row during aggregation: a slot record with its score
// coerced to an integer.
type record struct {
	ingest.SlotRecord
	score int
}

// Aggregate turns the flat slot records from every participant into the
// week-keyed leaderboard. Steps run in a fixed order: week remapping, score
// coercion, per-user totals, "total" pseudo-week synthesis, display
// formatting, then grouping and ranking. A non-numeric score is fatal; every
// other oddity degrades to a default upstream.
func Aggregate(records []ingest.SlotRecord, opts Options) (Leaderboard, error) {
	rows := make([]record, 0, len(records))
	for _, r := range records {
		if mapped, ok := opts.WeekRemapping[r.Week]; ok {
			r.Week = mapped
		}
		score, err := strconv.Atoi(r.Score)
		if err != nil {
			return nil, fmt.Errorf("slot %s/%s week %s: bad score %q", r.User, r.RosterSlot, r.Week, r.Score)
		}
		rows = append(rows, record{SlotRecord: r, score: score})
	}

	// Cumulative score per user across real weeks, attached to every one of
	// that user's rendered slots.
	userScores := make(map[string]int)
	for _, row := range rows {
		userScores[row.User] += row.score
	}

	rows = append(rows, synthesizeTotalWeek(rows)...)

	return group(rows, userScores, opts), nil
}

type slotKey struct {
	user string
	slot string
}

// synthesizeTotalWeek builds the "total" pseudo-week: per (user, roster
// slot), the last revealed record with its score replaced by the slot's sum
// across weeks. Unrevealed future slots (blank player name) are excluded so
// they do not zero out history; the earliest week is exempt so every slot
// keeps at least one anchoring record.
func synthesizeTotalWeek(rows []record) []record {
	earliest := earliestWeek(rows)

	var order []slotKey
	last := make(map[slotKey]record)
	sums := make(map[slotKey]int)
	for _, row := range rows {
		if row.PlayerName == " " && row.Week != earliest {
			continue
		}
		key := slotKey{user: row.User, slot: row.RosterSlot}
		if _, seen := last[key]; !seen {
			order = append(order, key)
		}
		last[key] = row
		sums[key] += row.score
	}

	totals := make([]record, 0, len(order))
	for _, key := range order {
		row := last[key]
		row.Week = TotalWeek
		row.score = sums[key]
		totals = append(totals, row)
	}
	return totals
}

// earliestWeek returns the numerically smallest week label present.
func earliestWeek(rows []record) string {
	earliest := ""
	lowest := 0
	for _, row := range rows {
		n, err := strconv.Atoi(row.Week)
		if err != nil {
			continue
		}
		if earliest == "" || n < lowest {
			earliest, lowest = row.Week, n
		}
	}
	return earliest
}

// group partitions rows by week, then by user within week, renders each
// user's roster, and ranks users by week score descending. Users keep their
// encounter order on ties, which is the crawler's name order.
func group(rows []record, userScores map[string]int, opts Options) Leaderboard {
	type partition struct {
		order  []string
		byUser map[string][]record
	}

	weeks := make(map[string]*partition)
	for _, row := range rows {
		wp, ok := weeks[row.Week]
		if !ok {
			wp = &partition{byUser: make(map[string][]record)}
			weeks[row.Week] = wp
		}
		if _, seen := wp.byUser[row.User]; !seen {
			wp.order = append(wp.order, row.User)
		}
		wp.byUser[row.User] = append(wp.byUser[row.User], row)
	}

	board := make(Leaderboard, len(weeks))
	for week, wp := range weeks {
		summaries := make([]UserWeek, 0, len(wp.order))
		for _, user := range wp.order {
			userRows := wp.byUser[user]

			weekScore := 0
			for _, row := range userRows {
				weekScore += row.score
			}

			roster := make([]Slot, 0, len(userRows))
			for _, row := range userRows {
				roster = append(roster, renderSlot(row, weekScore, userScores[user], opts))
			}

			summaries = append(summaries, UserWeek{
				User:      user,
				Roster:    roster,
				WeekScore: strconv.Itoa(weekScore),
			})
		}

		// Numeric compare, not lexicographic: "10" must outrank "2".
		sort.SliceStable(summaries, func(i, j int) bool {
			si, _ := strconv.Atoi(summaries[i].WeekScore)
			sj, _ := strconv.Atoi(summaries[j].WeekScore)
			return si > sj
		})

		board[week] = summaries
	}

	return board
}

// renderSlot converts a working row into its all-text display form.
func renderSlot(row record, weekScore, userScore int, opts Options) Slot {
	team := row.Team
	if abbr, ok := opts.TeamAbbreviations[team]; ok {
		team = abbr
	}

	return Slot{
		PlayerName: row.PlayerName,
		Position:   row.Position,
		RosterSlot: row.RosterSlot,
		Multiplier: row.Multiplier,
		Team:       team,
		Score:      strconv.Itoa(row.score),
		WeekScore:  strconv.Itoa(weekScore),
		UserScore:  strconv.Itoa(userScore),
		ImgURL:     absoluteImageURL(opts.BaseURL, row.PlayerImg),
	}
}

// absoluteImageURL prefixes relative image paths with the site base URL.
// Already-absolute refs pass through, as do refs too short to classify.
func absoluteImageURL(base, ref string) string {
	if len(ref) < len("http") || strings.HasPrefix(ref, "http") {
		return ref
	}
	return base + ref
}
