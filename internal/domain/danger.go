package domain

// DangerLevel is the four-step classification of the composite index.
type DangerLevel string

const (
	DangerLow     DangerLevel = "low"
	DangerMedium  DangerLevel = "medium"
	DangerHigh    DangerLevel = "high"
	DangerExtreme DangerLevel = "extreme"
)

// dangerLevels in ascending severity order.
var dangerLevels = []DangerLevel{DangerLow, DangerMedium, DangerHigh, DangerExtreme}

// DangerMeta is the display metadata associated with a danger level.
type DangerMeta struct {
	Label string
	Color string // hex, as rendered on the dashboard map
}

// dangerMeta is the single owned copy of the level→display table.
var dangerMeta = map[DangerLevel]DangerMeta{
	DangerLow:     {Label: "Low", Color: "#22c55e"},
	DangerMedium:  {Label: "Medium", Color: "#eab308"},
	DangerHigh:    {Label: "High", Color: "#f97316"},
	DangerExtreme: {Label: "Extreme", Color: "#ef4444"},
}

// Meta returns the display metadata for the level. A level absent from the
// table is a ConfigurationError.
func (l DangerLevel) Meta() (DangerMeta, error) {
	m, ok := dangerMeta[l]
	if !ok {
		return DangerMeta{}, &ConfigurationError{Table: "danger level", Missing: string(l)}
	}
	return m, nil
}

// VerifyDangerTable checks that every danger level has metadata and
// recommendations. Startup check; see VerifyCompassTable.
func VerifyDangerTable() error {
	for _, l := range dangerLevels {
		if _, ok := dangerMeta[l]; !ok {
			return &ConfigurationError{Table: "danger level", Missing: string(l)}
		}
		if _, ok := baseRecommendations[l]; !ok {
			return &ConfigurationError{Table: "recommendations", Missing: string(l)}
		}
	}
	return nil
}

// DangerThresholds are the composite-index cutoffs between the four levels.
// They partition [0, ∞): below Medium is low, below High is medium, below
// Extreme is high, the rest is extreme. A composite exactly at a cutoff
// belongs to the higher level.
type DangerThresholds struct {
	Medium  float64
	High    float64
	Extreme float64
}

func (t DangerThresholds) verify() error {
	if !(0 < t.Medium && t.Medium < t.High && t.High < t.Extreme) {
		return validationErr("danger_thresholds", t, "must satisfy 0 < medium < high < extreme")
	}
	return nil
}

// Classify maps a composite index to a danger level.
func (t DangerThresholds) Classify(composite float64) DangerLevel {
	switch {
	case composite < t.Medium:
		return DangerLow
	case composite < t.High:
		return DangerMedium
	case composite < t.Extreme:
		return DangerHigh
	default:
		return DangerExtreme
	}
}

// baseRecommendations holds the per-level advisory lists, in the order the
// duty officer reads them out.
var baseRecommendations = map[DangerLevel][]string{
	DangerLow: {
		"Fire situation is within normal limits",
		"Continue routine monitoring of the territory",
		"Maintain the standard level of readiness",
	},
	DangerMedium: {
		"Increase patrols of forested areas",
		"Check readiness of firefighting equipment",
		"Restrict open fires in the forest zone",
		"Inform the public about precautionary measures",
	},
	DangerHigh: {
		"Introduce a special fire-prevention regime",
		"Prohibit public access to forests",
		"Put fire crews on standby duty",
		"Prepare vehicles for rapid response",
		"Increase aerial patrols of the territory",
	},
	DangerExtreme: {
		"WARNING! Extreme fire danger!",
		"Declare a state of emergency",
		"Prohibit all work in the forest zone",
		"Mobilize all firefighting forces",
		"Prepare evacuation of settlements near forests",
		"Alert all emergency response services",
		"Organize round-the-clock duty",
	},
}

// vegetationAdvisories are appended for high and extreme levels, where the
// fuel type changes the tactical picture.
var vegetationAdvisories = map[VegetationType]string{
	Coniferous: "Coniferous stands: anticipate crown fire and long-range spotting",
	Mixed:      "Mixed stands: expect uneven spread between coniferous and deciduous patches",
	Deciduous:  "Deciduous stands: surface fire likely, monitor leaf litter and deadfall",
}

// Recommendations returns the ordered advisory list for a danger level and
// vegetation type. Pure lookup: the same pair always yields the same list.
func Recommendations(level DangerLevel, vegetation VegetationType) []string {
	base := baseRecommendations[level]
	out := make([]string, len(base), len(base)+1)
	copy(out, base)

	if level == DangerHigh || level == DangerExtreme {
		if advisory, ok := vegetationAdvisories[vegetation]; ok {
			out = append(out, advisory)
		}
	}
	return out
}
