package domain

// Features is the enabled-features record of a run.
// It is derived once from the command line and passed by value to every task.
type Features struct {
	// Revision appends a content hash to output filenames and records the
	// mapping in the revision manifest.
	Revision bool
	// SourceMaps emits a companion map file for every stylesheet bundle.
	SourceMaps bool
	// FailOnStyleError aborts a bundle on the first transform error.
	FailOnStyleError bool
	// FailOnTemplateError aborts the template task on the first compile error.
	FailOnTemplateError bool
}

// NewFeatures derives the features record from the production switch.
func NewFeatures(production bool) Features {
	return Features{
		Revision:            production,
		SourceMaps:          !production,
		FailOnStyleError:    production,
		FailOnTemplateError: production,
	}
}

// WithOverrides applies explicit output toggles. Nil values keep the
// production-derived default. The fail-fast policy is never overridden.
func (f Features) WithOverrides(revision, sourceMaps *bool) Features {
	if revision != nil {
		f.Revision = *revision
	}
	if sourceMaps != nil {
		f.SourceMaps = *sourceMaps
	}
	return f
}
