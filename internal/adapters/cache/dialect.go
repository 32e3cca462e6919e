package cache

import (
	"fmt"
	"strings"
)

// Dialect selects the SQL flavour of the backing database.
type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// ph returns the n-th (1-based) bind placeholder.
func (d Dialect) ph(n int) string {
	if d == SQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

// inText builds a "column IN set" predicate over text values.
//
// Postgres binds the whole set as one text[] parameter. SQLite does not support
// binding slices, so one placeholder per value is interpolated; all values
// remain parameterized.
func (d Dialect) inText(column string, values []string) (string, []any) {
	if d == Postgres {
		return column + " = ANY($1::text[])", []any{values}
	}

	ph := make([]string, len(values))
	args := make([]any, len(values))
	for i, v := range values {
		ph[i] = "?"
		args[i] = v
	}
	return fmt.Sprintf("%s IN (%s)", column, strings.Join(ph, ",")), args
}

// uniqKeys trims, drops empty, and dedupes keys, preserving order.
func uniqKeys(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}
	return uniq
}
