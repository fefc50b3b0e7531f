package bbref

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/courtdata/gamelog/internal/store"
)

// ParseGameLog extracts game rows for one player from a game-log page.
// The table uses data-stat attributes on its cells; both the current
// and the legacy attribute names are accepted. Rows with unparseable
// dates come back with a zero date for the sync service to drop.
func ParseGameLog(doc *goquery.Document, playerID, playerName string) ([]store.GameRow, error) {
	table := doc.Find("table.stats_table tbody tr")
	if table.Length() == 0 {
		return nil, errors.New("ParseGameLog: no game-log table in document")
	}

	var rows []store.GameRow
	table.Each(func(_ int, tr *goquery.Selection) {
		// Repeated header rows inside the body carry a class.
		if tr.HasClass("thead") {
			return
		}

		dateText := cellText(tr, "date", "date_game")
		if dateText == "" {
			return
		}

		date, _ := time.Parse(store.DateOnly, dateText)
		team := cellText(tr, "team_name_abbr", "team_id")
		opp := cellText(tr, "opp_name_abbr", "opp_id")

		row := store.GameRow{
			PlayerID:   playerID,
			PlayerName: playerName,
			GameID:     playerID + "_" + dateText,
			GameDate:   date,
			Matchup:    matchup(team, cellText(tr, "game_location"), opp),
			Outcome:    outcome(cellText(tr, "game_result")),
			Minutes:    minutes(cellText(tr, "mp")),
			Points:     statValue(tr, "pts"),
			Rebounds:   statValue(tr, "trb"),
			Assists:    statValue(tr, "ast"),
			Steals:     statValue(tr, "stl"),
			Blocks:     statValue(tr, "blk"),
			Turnovers:  statValue(tr, "tov"),
		}
		rows = append(rows, row)
	})

	return rows, nil
}

// cellText returns the trimmed text of the first cell matching any of
// the given data-stat names.
func cellText(tr *goquery.Selection, names ...string) string {
	for _, name := range names {
		cell := tr.Find(`td[data-stat="` + name + `"], th[data-stat="` + name + `"]`)
		if cell.Length() > 0 {
			return strings.TrimSpace(cell.First().Text())
		}
	}
	return ""
}

func statValue(tr *goquery.Selection, name string) float64 {
	v, err := strconv.ParseFloat(cellText(tr, name), 64)
	if err != nil {
		return 0
	}
	return v
}

// matchup rebuilds the provider-style matchup string: away games are
// marked with "@", home games with "vs.".
func matchup(team, location, opp string) string {
	if team == "" || opp == "" {
		return opp
	}
	if location == "@" {
		return team + " @ " + opp
	}
	return team + " vs. " + opp
}

// outcome reduces a result like "W (+12)" to "W".
func outcome(result string) string {
	result = strings.TrimSpace(result)
	if result == "" {
		return ""
	}
	return result[:1]
}

// minutes converts "36:24" into fractional minutes.
func minutes(mp string) float64 {
	if mp == "" {
		return 0
	}
	parts := strings.SplitN(mp, ":", 2)
	mins, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 2 {
		if secs, err := strconv.ParseFloat(parts[1], 64); err == nil {
			mins += secs / 60
		}
	}
	return mins
}

// Source adapts a game-log page to the sync service.
type Source struct {
	client     *Client
	url        string
	playerID   string
	playerName string
}

// NewSource creates an ingestion source scraping one player's page.
func NewSource(client *Client, url, playerID, playerName string) *Source {
	return &Source{client: client, url: url, playerID: playerID, playerName: playerName}
}

func (s *Source) Name() string {
	return "bbref"
}

func (s *Source) Fetch(ctx context.Context) ([]store.GameRow, error) {
	doc, err := s.client.FetchGameLog(ctx, s.url)
	if err != nil {
		return nil, err
	}
	return ParseGameLog(doc, s.playerID, s.playerName)
}
