package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/riskibarqy/standings-sync/internal/domain/league"
	"gopkg.in/yaml.v3"
)

// DefaultLeagues is the catalog used when neither LEAGUES_FILE nor LEAGUES is set.
func DefaultLeagues() []league.League {
	return []league.League{
		{ID: 2, Name: "Premier League", Country: "England", TableName: "standings_premier_league"},
		{ID: 5, Name: "Ligue 1", Country: "France", TableName: "standings_ligue_1"},
	}
}

type leagueCatalogFile struct {
	Leagues []league.League `yaml:"leagues"`
}

// LoadLeagueCatalog reads a YAML file of the form:
//
//	leagues:
//	  - id: 2
//	    name: Premier League
//	    country: England
//	    table_name: standings_premier_league
func LoadLeagueCatalog(path string) ([]league.League, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league catalog: %w", err)
	}

	var catalog leagueCatalogFile
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("parse league catalog %s: %w", path, err)
	}
	if err := validateLeagues(catalog.Leagues); err != nil {
		return nil, fmt.Errorf("league catalog %s: %w", path, err)
	}
	return catalog.Leagues, nil
}

func loadLeagues() ([]league.League, error) {
	if path := strings.TrimSpace(os.Getenv("LEAGUES_FILE")); path != "" {
		return LoadLeagueCatalog(path)
	}
	if raw := strings.TrimSpace(os.Getenv("LEAGUES")); raw != "" {
		leagues, err := parseLeagueList(raw)
		if err != nil {
			return nil, fmt.Errorf("parse LEAGUES: %w", err)
		}
		return leagues, nil
	}
	return DefaultLeagues(), nil
}

// parseLeagueList reads "2:Premier League,5:Ligue 1".
func parseLeagueList(raw string) ([]league.League, error) {
	out := make([]league.League, 0)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid league item %q, expected competition_id:name", item)
		}
		id, err := strconv.ParseInt(strings.TrimSpace(segments[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid competition id in item %q: %w", item, err)
		}
		out = append(out, league.League{ID: id, Name: strings.TrimSpace(segments[1])})
	}

	if err := validateLeagues(out); err != nil {
		return nil, err
	}
	return out, nil
}

func validateLeagues(leagues []league.League) error {
	if len(leagues) == 0 {
		return fmt.Errorf("at least one league is required")
	}

	seenIDs := make(map[int64]struct{}, len(leagues))
	seenTables := make(map[string]int64, len(leagues))
	for _, lg := range leagues {
		if err := lg.Validate(); err != nil {
			return err
		}
		if _, dup := seenIDs[lg.ID]; dup {
			return fmt.Errorf("duplicate competition id %d", lg.ID)
		}
		seenIDs[lg.ID] = struct{}{}

		table, err := lg.Table()
		if err != nil {
			return fmt.Errorf("league %d: %w", lg.ID, err)
		}
		if other, dup := seenTables[table]; dup {
			return fmt.Errorf("leagues %d and %d resolve to the same table %s", other, lg.ID, table)
		}
		seenTables[table] = lg.ID
	}
	return nil
}
