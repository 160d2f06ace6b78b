package repository

import (
	"strings"

	"github.com/okian/playersim/internal/domain/model"
)

// Fixed columns preceding the stat columns in every row query.
var baseColumns = []string{"player_id", "player_name", "season", "week", "position", "routes_source"}

// statColumns returns the stat column names in model.StatFields order.
func statColumns() []string {
	out := make([]string, len(model.StatFields))
	for i, f := range model.StatFields {
		out[i] = string(f)
	}
	return out
}

func selectList() string {
	return strings.Join(append(append([]string(nil), baseColumns...), statColumns()...), ", ")
}

// nullableStats turns scanned stat pointers into a stat map; NULL is absent.
func nullableStats(vals []*float64) map[model.StatField]float64 {
	stats := make(map[model.StatField]float64, len(vals))
	for i, v := range vals {
		if v != nil {
			stats[model.StatFields[i]] = *v
		}
	}
	return stats
}

// statArgs returns one value per stat column, nil where absent.
func statArgs(r *model.PlayerGameRow) []any {
	out := make([]any, len(model.StatFields))
	for i, f := range model.StatFields {
		if v, ok := r.Stat(f); ok {
			out[i] = v
		}
	}
	return out
}

func routesSource(s string) model.RoutesSource {
	switch model.RoutesSource(s) {
	case model.RoutesMeasured, model.RoutesEstimated:
		return model.RoutesSource(s)
	default:
		return model.RoutesNone
	}
}
