package league

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	tablePrefix        = "standings_"
	maxIdentifierBytes = 63
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// League is a competition whose standings are synchronized into its own table.
type League struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	Country   string `yaml:"country"`
	TableName string `yaml:"table_name"`
}

func (l League) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("league id must be > 0")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("league name is required")
	}
	if l.TableName != "" {
		if err := ValidateTableName(l.TableName); err != nil {
			return fmt.Errorf("league %d: %w", l.ID, err)
		}
	}
	return nil
}

// Table returns the explicit table name when set, otherwise the one derived
// from the league name.
func (l League) Table() (string, error) {
	if l.TableName != "" {
		if err := ValidateTableName(l.TableName); err != nil {
			return "", err
		}
		return l.TableName, nil
	}
	return TableNameFor(l.Name)
}

// TableNameFor derives "standings_<slug>" from a league name,
// e.g. "Premier League" -> "standings_premier_league".
func TableNameFor(name string) (string, error) {
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("league name %q has no usable characters for a table name", name)
	}
	table := tablePrefix + slug
	if err := ValidateTableName(table); err != nil {
		return "", err
	}
	return table, nil
}

func ValidateTableName(table string) error {
	if len(table) > maxIdentifierBytes {
		return fmt.Errorf("table name %q exceeds %d characters", table, maxIdentifierBytes)
	}
	if !identifierPattern.MatchString(table) {
		return fmt.Errorf("table name %q must match %s", table, identifierPattern.String())
	}
	return nil
}

func slugify(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}
