package jsonschema

// FlagOutput is the minimal output structure: did validation
// succeed, nothing more.
type FlagOutput struct {
	Valid bool `json:"valid"`
}

// OutputUnit is one entry in a Basic/Detailed/Verbose output structure.
type OutputUnit struct {
	Valid                   bool         `json:"valid"`
	KeywordLocation         string       `json:"keywordLocation"`
	AbsoluteKeywordLocation string       `json:"absoluteKeywordLocation,omitempty"`
	InstanceLocation        string       `json:"instanceLocation"`
	Error                   string       `json:"error,omitempty"`
	Errors                  []OutputUnit `json:"errors,omitempty"`
}

// FlagOutput returns the coarsest output structure: just whether ve is nil.
func (ve *ValidationError) FlagOutput() FlagOutput {
	return FlagOutput{Valid: ve == nil}
}

// BasicOutput flattens every (non-nil) ValidationError in ve's tree into a
// single list of OutputUnits, matching draft 2019-09's "basic" structure.
func (ve *ValidationError) BasicOutput() OutputUnit {
	units := []OutputUnit{}
	ve.flatten(&units)
	return OutputUnit{
		Valid:  false,
		Errors: units,
	}
}

func (ve *ValidationError) flatten(out *[]OutputUnit) {
	if ve == nil {
		return
	}
	*out = append(*out, OutputUnit{
		Valid:                   false,
		KeywordLocation:         ve.KeywordLocation,
		AbsoluteKeywordLocation: ve.AbsoluteKeywordLocation,
		InstanceLocation:        ve.InstanceLocation,
		Error:                   ve.Error(),
	})
	for _, c := range ve.Causes {
		c.flatten(out)
	}
}

// DetailedOutput preserves the tree shape of ve, matching the "detailed"
// structure: a unit whose own Errors names its direct children, recursively.
func (ve *ValidationError) DetailedOutput() OutputUnit {
	if ve == nil {
		return OutputUnit{Valid: true}
	}
	u := OutputUnit{
		Valid:                   false,
		KeywordLocation:         ve.KeywordLocation,
		AbsoluteKeywordLocation: ve.AbsoluteKeywordLocation,
		InstanceLocation:        ve.InstanceLocation,
	}
	if len(ve.Causes) == 0 {
		u.Error = ve.Error()
		return u
	}
	for _, c := range ve.Causes {
		u.Errors = append(u.Errors, c.DetailedOutput())
	}
	return u
}

// VerboseOutput is DetailedOutput with every intermediate node (not just
// leaves) also carrying its own rendered Error message, matching the
// "verbose" structure some implementations expose alongside basic/detailed.
func (ve *ValidationError) VerboseOutput() OutputUnit {
	if ve == nil {
		return OutputUnit{Valid: true}
	}
	u := OutputUnit{
		Valid:                   false,
		KeywordLocation:         ve.KeywordLocation,
		AbsoluteKeywordLocation: ve.AbsoluteKeywordLocation,
		InstanceLocation:        ve.InstanceLocation,
		Error:                   ve.Error(),
	}
	for _, c := range ve.Causes {
		u.Errors = append(u.Errors, c.VerboseOutput())
	}
	return u
}
