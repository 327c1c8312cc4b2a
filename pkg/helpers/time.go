package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agriassist/agriassist-api/pkg/geo"
)

// LocalizeTimesIfPossible rewrites GeneratedAtText in the recipient's timezone
// when the job carries an IP the resolver can place.
func LocalizeTimesIfPossible(ctx context.Context, resolver geo.Resolver, data map[string]any) {
	if resolver == nil {
		return
	}
	ipVal, ok := data["IP"]
	if !ok || ipVal == nil || fmt.Sprintf("%v", ipVal) == "" {
		return
	}
	g, err := resolver.Lookup(ctx, fmt.Sprintf("%v", ipVal))
	if err != nil || strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if v, ok := data["GeneratedAt"]; ok {
		if t, ok2 := parseTimeAny(v); ok2 {
			data["GeneratedAtText"] = t.In(loc).Format("02 January 2006, 15:04 MST")
		}
	}
	if loc, ok := data["Location"]; !ok || loc == nil || fmt.Sprintf("%v", loc) == "" {
		data["Location"] = geo.Format(g)
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	s := fmt.Sprintf("%v", v)
	layouts := []string{
		time.RFC3339Nano,
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
