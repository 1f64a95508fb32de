// Package clock owns the authoritative game timestamp and derives
// season and weather from it. Season and weather are never stored,
// always computed, so stored and derived state cannot diverge.
package clock

import "github.com/nboyd/hearthvale/types"

// DaysPerYear is the length of the game year; each season spans a quarter.
const DaysPerYear = 120

// SeasonLength is the number of days in one season.
const SeasonLength = DaysPerYear / 4

// NightBounds defines the hour range considered night: hour >= From or
// hour < Until. The boundary is authored per presentation context, not
// a global constant — the village and the wilds disagree on when night
// falls, so call sites pick their bounds explicitly.
type NightBounds struct {
	From  int // first night hour, e.g. 20
	Until int // first morning hour, e.g. 5
}

// IsNight reports whether the given hour falls inside the bounds.
func (b NightBounds) IsNight(hour int) bool {
	return hour >= b.From || hour < b.Until
}

// The two authored night conventions found in the content.
var (
	VillageNight = NightBounds{From: 20, Until: 5}
	WildsNight   = NightBounds{From: 18, Until: 6}
)

// Clock is the world clock. It is mutated only through Advance (or the
// ambient Tick), and can be paused to suspend ambient time flow.
type Clock struct {
	time      types.WorldTime
	paused    bool
	overrides map[int]types.Weather // authored per-day weather, day → weather
}

// New creates a clock at day 1, 06:00.
func New() *Clock {
	return &Clock{
		time: types.WorldTime{Day: 1, Hour: 6, Minute: 0},
	}
}

// Time returns the current timestamp.
func (c *Clock) Time() types.WorldTime {
	return c.time
}

// SetTime replaces the timestamp (used by save restore). The value is
// normalized so hour/minute carries never persist across reads.
func (c *Clock) SetTime(t types.WorldTime) {
	if t.Day < 1 {
		t.Day = 1
	}
	c.time = t
	c.normalize()
}

// Advance adds minutes to the clock, carrying minutes into hours and
// hours into days. Negative input is ignored.
func (c *Clock) Advance(minutes int) {
	if minutes <= 0 {
		return
	}
	c.time.Minute += minutes
	c.normalize()
}

func (c *Clock) normalize() {
	c.time.Hour += c.time.Minute / 60
	c.time.Minute %= 60
	c.time.Day += c.time.Hour / 24
	c.time.Hour %= 24
}

// Pause suspends ambient time flow. Explicit Advance calls (from a
// timed-action commit) still work while paused.
func (c *Clock) Pause() { c.paused = true }

// Resume re-enables ambient time flow.
func (c *Clock) Resume() { c.paused = false }

// Paused reports whether ambient time flow is suspended.
func (c *Clock) Paused() bool { return c.paused }

// Tick advances the clock by one ambient minute. A paused tick is
// skipped, not queued. Returns true if time moved.
func (c *Clock) Tick() bool {
	if c.paused {
		return false
	}
	c.Advance(1)
	return true
}

// SetWeatherOverride pins an authored weather for a specific day,
// taking precedence over the derived value.
func (c *Clock) SetWeatherOverride(day int, w types.Weather) {
	if c.overrides == nil {
		c.overrides = map[int]types.Weather{}
	}
	c.overrides[day] = w
}

// Season returns the current season.
func (c *Clock) Season() types.Season {
	return SeasonOf(c.time.Day)
}

// Weather returns the current weather, honoring per-day overrides.
func (c *Clock) Weather() types.Weather {
	if w, ok := c.overrides[c.time.Day]; ok {
		return w
	}
	return WeatherAt(c.time.Day, c.time.Hour, c.time.Minute, c.Season())
}

// SeasonOf derives the season for a day: (day-1) mod 120, quartered
// into four 30-day bands in fixed order.
func SeasonOf(day int) types.Season {
	switch ((day - 1) % DaysPerYear) / SeasonLength {
	case 0:
		return types.Spring
	case 1:
		return types.Summer
	case 2:
		return types.Autumn
	default:
		return types.Winter
	}
}

// WeatherAt derives weather from a timestamp and season. It is pure:
// identical inputs always yield identical output, so the presentation
// layer can compare values to skip redundant redraws and tests are
// deterministic. Minutes only matter at 20-minute granularity so the
// sky doesn't flicker every tick.
func WeatherAt(day, hour, minute int, season types.Season) types.Weather {
	roll := (day*31 + hour*7 + minute/20) % 100

	// Clear night skies unless it's precipitating.
	night := WildsNight.IsNight(hour)

	switch season {
	case types.Winter:
		switch {
		case roll < 35:
			return types.Snowy
		case roll < 70:
			return types.Cloudy
		default:
			if night {
				return types.Clear
			}
			return types.Sunny
		}
	case types.Spring, types.Autumn:
		switch {
		case roll < 30:
			return types.Rainy
		case roll < 55:
			return types.Cloudy
		default:
			if night {
				return types.Clear
			}
			return types.Sunny
		}
	default: // summer
		switch {
		case roll < 10:
			return types.Rainy
		case roll < 25:
			return types.Cloudy
		default:
			if night {
				return types.Clear
			}
			return types.Sunny
		}
	}
}
