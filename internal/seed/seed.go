package seed

import (
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/Simplici0/quoteworks/internal/pricing"
)

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run records the current pricing rule table in an idempotent way. Cart rows
// reference the version row, so this runs before any quote is stored.
func Run(db *sql.DB) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := ensureRuleVersion(tx, pricing.RuleTableVersion, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, rule := range pricing.Rules() {
		if err := ensureRule(tx, pricing.RuleTableVersion, rule, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureRuleVersion(tx *sql.Tx, version string, stats *Stats) error {
	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM pricing_rule_versions WHERE version = ?)`, version).Scan(&exists); err != nil {
		return fmt.Errorf("check rule version existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.Exec(`INSERT INTO pricing_rule_versions (version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("insert rule version: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureRule(tx *sql.Tx, version string, rule pricing.PricingRule, stats *Stats) error {
	ruleJSON, err := json.Marshal(rule)
	if err != nil {
		return fmt.Errorf("encode rule %s/%s: %w", rule.Family, rule.Tier, err)
	}

	var stored string
	err = tx.QueryRow(`
		SELECT rule_json
		FROM pricing_rules
		WHERE version = ? AND family = ? AND tier = ?
	`, version, rule.Family, rule.Tier).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`
			INSERT INTO pricing_rules (version, family, tier, rule_json)
			VALUES (?, ?, ?, ?)
		`, version, rule.Family, rule.Tier, string(ruleJSON)); err != nil {
			return fmt.Errorf("insert rule %s/%s: %w", rule.Family, rule.Tier, err)
		}
		stats.Inserts++
		return nil
	case err != nil:
		return fmt.Errorf("check rule %s/%s existence: %w", rule.Family, rule.Tier, err)
	}

	if stored == string(ruleJSON) {
		return nil
	}

	if _, err := tx.Exec(`
		UPDATE pricing_rules
		SET rule_json = ?
		WHERE version = ? AND family = ? AND tier = ?
	`, string(ruleJSON), version, rule.Family, rule.Tier); err != nil {
		return fmt.Errorf("update rule %s/%s: %w", rule.Family, rule.Tier, err)
	}
	stats.Updates++
	return nil
}
