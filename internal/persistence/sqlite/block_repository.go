package sqlite

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/example/staybook/internal/persistence"
)

// BlockRuleRepository persists recurring blocked-period rules.
type BlockRuleRepository struct {
	db *DB
}

// NewBlockRuleRepository builds a repository over the shared handle.
func NewBlockRuleRepository(db *DB) *BlockRuleRepository {
	return &BlockRuleRepository{db: db}
}

// CreateBlockRule inserts a new rule.
func (r *BlockRuleRepository) CreateBlockRule(ctx context.Context, rule persistence.BlockRule) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO block_rules (id, unit_id, label, frequency, weekdays, starts_on, ends_on, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rule.ID,
		rule.UnitID,
		rule.Label,
		rule.Frequency,
		encodeWeekdays(rule.Weekdays),
		formatTime(rule.StartsOn),
		formatNullableTime(rule.EndsOn),
		formatTime(rule.CreatedAt),
		formatTime(rule.UpdatedAt),
	)
	return mapError(err)
}

// ListBlockRulesForUnit returns a unit's rules ordered by creation time.
func (r *BlockRuleRepository) ListBlockRulesForUnit(ctx context.Context, unitID string) ([]persistence.BlockRule, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, unit_id, label, frequency, weekdays, starts_on, ends_on, created_at, updated_at
		FROM block_rules WHERE unit_id = ? ORDER BY created_at, id`, unitID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	rules := make([]persistence.BlockRule, 0)
	for rows.Next() {
		var rule persistence.BlockRule
		var weekdays, startsOn, createdAt, updatedAt string
		var endsOn sql.NullString
		if err := rows.Scan(
			&rule.ID,
			&rule.UnitID,
			&rule.Label,
			&rule.Frequency,
			&weekdays,
			&startsOn,
			&endsOn,
			&createdAt,
			&updatedAt,
		); err != nil {
			return nil, mapError(err)
		}
		rule.Weekdays = decodeWeekdays(weekdays)
		rule.StartsOn = parseTime(startsOn)
		rule.EndsOn = parseNullableTime(endsOn)
		rule.CreatedAt = parseTime(createdAt)
		rule.UpdatedAt = parseTime(updatedAt)
		rules = append(rules, rule)
	}
	return rules, mapError(rows.Err())
}

// DeleteBlockRule removes a rule.
func (r *BlockRuleRepository) DeleteBlockRule(ctx context.Context, id string) error {
	result, err := r.db.db.ExecContext(ctx, `DELETE FROM block_rules WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	return requireRow(result)
}

// Weekdays are stored as a comma-joined list of time.Weekday ordinals.
func encodeWeekdays(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	parts := make([]string, 0, len(days))
	for _, day := range days {
		parts = append(parts, strconv.Itoa(int(day)))
	}
	return strings.Join(parts, ",")
}

func decodeWeekdays(encoded string) []time.Weekday {
	if encoded == "" {
		return nil
	}
	parts := strings.Split(encoded, ",")
	days := make([]time.Weekday, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			continue
		}
		days = append(days, time.Weekday(n))
	}
	return days
}
