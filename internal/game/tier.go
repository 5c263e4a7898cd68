package game

// Tier describes one difficulty configuration. The score cap and the timing
// floor are tuned per tier: a tier's cap is the maximum plausible score
// within the session window, and MinMillisPerPoint is the fastest allowed
// pace per solved question.
type Tier struct {
	Name              string
	ScoreCap          int
	MinMillisPerPoint int64
}

// DefaultTier is the only tier shipped today. Roughly two seconds per
// question at this difficulty; 400ms/point is the generous floor.
const DefaultTier = "ultrahard"

var tiers = map[string]Tier{
	DefaultTier: {
		Name:              DefaultTier,
		ScoreCap:          200,
		MinMillisPerPoint: 400,
	},
}

// LookupTier returns the configuration for a tier name.
func LookupTier(name string) (Tier, bool) {
	tier, ok := tiers[name]
	return tier, ok
}
