package schedule

import (
	"strconv"
	"strings"
	"time"

	"github.com/viniciusalmeida93/ant-camp/models"
)

// DefaultTimeCapMinutes is used when a wod has no time cap configured.
const DefaultTimeCapMinutes = 10.0

// VariationKey identifies a per-category override of wod settings.
type VariationKey struct {
	WodID      int
	CategoryID int
}

// ParseTimeCap converts a "MM:SS" time cap into minutes. Plain integers are
// accepted as whole minutes. Empty or unparsable values fall back to the
// default cap.
func ParseTimeCap(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultTimeCapMinutes
	}
	if idx := strings.Index(raw, ":"); idx >= 0 {
		mins, errM := strconv.Atoi(raw[:idx])
		secs, errS := strconv.Atoi(raw[idx+1:])
		if errM != nil || errS != nil {
			return DefaultTimeCapMinutes
		}
		return float64(mins) + float64(secs)/60.0
	}
	mins, err := strconv.Atoi(raw)
	if err != nil || mins <= 0 {
		return DefaultTimeCapMinutes
	}
	return float64(mins)
}

// EffectiveIntervals resolves the calculation-time interval values. Zero or
// negative category/wod intervals fall back to the transition interval; the
// configured value itself is never rewritten.
func EffectiveIntervals(cfg models.IntervalConfig) (transition, category, wod int) {
	transition = cfg.TransitionMinutes
	if transition < 0 {
		transition = 0
	}
	category = cfg.CategoryIntervalMinutes
	if category <= 0 {
		category = transition
	}
	wod = cfg.WodIntervalMinutes
	if wod <= 0 {
		wod = transition
	}
	return transition, category, wod
}

// DayStart resolves the wall-clock anchor for a championship day from its
// date and "HH:MM" start time. ok is false when the day carries no usable
// start configuration.
func DayStart(day *models.ChampionshipDay) (time.Time, bool) {
	if day == nil {
		return time.Time{}, false
	}
	parts := strings.SplitN(day.StartTime, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}
	hours, errH := strconv.Atoi(parts[0])
	mins, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil {
		return time.Time{}, false
	}
	d := day.Date
	return time.Date(d.Year(), d.Month(), d.Day(), hours, mins, 0, 0, d.Location()), true
}

func minutesToDuration(minutes float64) time.Duration {
	return time.Duration(minutes * float64(time.Minute))
}
