package leaderboard

import (
	"sort"
	"strconv"
	"testing"

	"github.com/fortuna/gridiron/internal/ingest"
	"github.com/stretchr/testify/require"
)

func rec(user, week, slot, name, score string) ingest.SlotRecord {
	return ingest.SlotRecord{
		User:       user,
		Week:       week,
		RosterSlot: slot,
		PlayerName: name,
		Score:      score,
	}
}

func TestAggregateTwoUsersOneWeek(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "Josh Allen", "12"),
		rec("bob", "1", "QB", "Patrick Mahomes", "20"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)
	require.Len(t, board, 2)

	week := board["1"]
	require.Len(t, week, 2)
	require.Equal(t, "bob", week[0].User)
	require.Equal(t, "20", week[0].WeekScore)
	require.Equal(t, "alice", week[1].User)
	require.Equal(t, "12", week[1].WeekScore)

	total := board[TotalWeek]
	require.Len(t, total, 2)
	require.Equal(t, "bob", total[0].User)
	require.Equal(t, "20", total[0].WeekScore)
	require.Equal(t, "alice", total[1].User)
	require.Equal(t, "12", total[1].WeekScore)
}

func TestAggregateTotalWeekReconciles(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "Josh Allen", "12"),
		rec("alice", "1", "RB1", "Derrick Henry", "8"),
		rec("alice", "2", "QB", "Josh Allen", "24"),
		rec("alice", "2", "RB1", "Derrick Henry", "6"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	// total week score per user equals the sum of their real week scores
	sum := 0
	for week, users := range board {
		if week == TotalWeek {
			continue
		}
		for _, u := range users {
			if u.User == "alice" {
				n, err := strconv.Atoi(u.WeekScore)
				require.NoError(t, err)
				sum += n
			}
		}
	}
	require.Equal(t, strconv.Itoa(sum), board[TotalWeek][0].WeekScore)
	require.Equal(t, "50", board[TotalWeek][0].WeekScore)

	// one total slot per roster slot, carrying the summed score
	roster := board[TotalWeek][0].Roster
	require.Len(t, roster, 2)
	require.Equal(t, "36", roster[0].Score)
	require.Equal(t, "14", roster[1].Score)
}

func TestAggregateUnrevealedFutureWeek(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "Patrick Mahomes", "30"),
		rec("alice", "2", "QB", " ", "0"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	// the unrevealed slot still shows under its own week
	week2 := board["2"]
	require.Len(t, week2, 1)
	require.Equal(t, "0", week2[0].WeekScore)
	require.Equal(t, " ", week2[0].Roster[0].PlayerName)

	// but it must not zero out the cumulative total
	total := board[TotalWeek]
	require.Len(t, total, 1)
	require.Equal(t, "30", total[0].WeekScore)
	require.Len(t, total[0].Roster, 1)
	require.Equal(t, "Patrick Mahomes", total[0].Roster[0].PlayerName)
	require.Equal(t, "30", total[0].Roster[0].Score)
}

func TestAggregateNeverRevealedSlotAnchorsOnEarliestWeek(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "K", " ", "0"),
		rec("alice", "2", "K", " ", "0"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	// the earliest week's blank record anchors the slot in the total week
	total := board[TotalWeek]
	require.Len(t, total, 1)
	require.Len(t, total[0].Roster, 1)
	require.Equal(t, "0", total[0].Roster[0].Score)
}

func TestAggregateSortsNumericallyNotLexicographically(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "A", "2"),
		rec("bob", "1", "QB", "B", "10"),
		rec("carol", "1", "QB", "C", "9"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	week := board["1"]
	require.Equal(t, []string{"bob", "carol", "alice"}, []string{week[0].User, week[1].User, week[2].User})
}

func TestAggregateSortIsIdempotentAndStable(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "A", "15"),
		rec("bob", "1", "QB", "B", "15"),
		rec("carol", "1", "QB", "C", "20"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	week := board["1"]

	// ties keep encounter order
	require.Equal(t, "carol", week[0].User)
	require.Equal(t, "alice", week[1].User)
	require.Equal(t, "bob", week[2].User)

	// re-sorting by the documented key is a no-op
	resorted := make([]UserWeek, len(week))
	copy(resorted, week)
	sort.SliceStable(resorted, func(i, j int) bool {
		si, _ := strconv.Atoi(resorted[i].WeekScore)
		sj, _ := strconv.Atoi(resorted[j].WeekScore)
		return si > sj
	})
	require.Equal(t, week, resorted)
}

func TestAggregateNonNumericScoreIsFatal(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "A", "not-a-number"),
	}

	_, err := Aggregate(records, Options{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "alice/QB")
	require.Contains(t, err.Error(), "not-a-number")
}

func TestAggregateWeekRemapping(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "A", "5"),
		rec("alice", "7", "QB", "A", "5"),
	}

	board, err := Aggregate(records, Options{
		WeekRemapping: map[string]string{"1": "18"},
	})
	require.NoError(t, err)

	require.Contains(t, board, "18")
	require.NotContains(t, board, "1")
	// unmapped week ids pass through unchanged
	require.Contains(t, board, "7")
}

func TestAggregateTeamRemapping(t *testing.T) {
	records := []ingest.SlotRecord{
		{User: "alice", Week: "1", RosterSlot: "QB", PlayerName: "A", Score: "5", Team: "16"},
		{User: "alice", Week: "1", RosterSlot: "RB1", PlayerName: "B", Score: "5", Team: "99"},
	}

	board, err := Aggregate(records, Options{
		TeamAbbreviations: map[string]string{"16": "KC"},
	})
	require.NoError(t, err)

	roster := board["1"][0].Roster
	require.Equal(t, "KC", roster[0].Team)
	require.Equal(t, "99", roster[1].Team)
}

func TestAggregateImageURLs(t *testing.T) {
	records := []ingest.SlotRecord{
		{User: "a", Week: "1", RosterSlot: "QB", PlayerName: "A", Score: "0", PlayerImg: "/static/p.png"},
		{User: "a", Week: "1", RosterSlot: "RB1", PlayerName: "B", Score: "0", PlayerImg: "https://cdn.example.com/p.png"},
		{User: "a", Week: "1", RosterSlot: "K", PlayerName: "C", Score: "0"},
	}

	board, err := Aggregate(records, Options{BaseURL: "https://site.test"})
	require.NoError(t, err)

	roster := board["1"][0].Roster
	require.Equal(t, "https://site.test/static/p.png", roster[0].ImgURL)
	require.Equal(t, "https://cdn.example.com/p.png", roster[1].ImgURL)
	require.Equal(t, "", roster[2].ImgURL)
}

func TestAggregateUserScoreOnEverySlot(t *testing.T) {
	records := []ingest.SlotRecord{
		rec("alice", "1", "QB", "A", "10"),
		rec("alice", "2", "QB", "B", "15"),
	}

	board, err := Aggregate(records, Options{})
	require.NoError(t, err)

	for week, users := range board {
		for _, u := range users {
			for _, slot := range u.Roster {
				require.Equal(t, "25", slot.UserScore, "week %s", week)
			}
		}
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	board, err := Aggregate(nil, Options{})
	require.NoError(t, err)
	require.Empty(t, board)
}
