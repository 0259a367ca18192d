package scoring

// GenericScorer is the sport-agnostic no-op variant: no correlation
// signal, no tags, base selector defaults, any roster schema.
type GenericScorer struct{}

func (g *GenericScorer) Key() string  { return "generic" }
func (g *GenericScorer) Name() string { return "Generic" }

func (g *GenericScorer) RosterSchema() []string { return nil }

func (g *GenericScorer) Defaults() Defaults { return baseDefaults() }

func (g *GenericScorer) ComputeFeatures(ctx Context) Features {
	return Features{Correlation: 0.0, Tags: map[string]any{}}
}

func (g *GenericScorer) SummaryLines(selected []Features) []string { return nil }
