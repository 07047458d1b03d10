package types

// ExtractionResult holds the vocabulary terms found in one document.
// Every list is deduplicated and sorted; none of them is nil.
type ExtractionResult struct {
	TechnicalSkills    []string `json:"technical_skills"`
	SoftSkills         []string `json:"soft_skills"`
	ExperienceKeywords []string `json:"experience_keywords"` // may include one synthesized "N+ years" marker
	Education          []string `json:"education"`
}

// NewExtractionResult returns a result with all four lists empty but non-nil.
func NewExtractionResult() ExtractionResult {
	return ExtractionResult{
		TechnicalSkills:    []string{},
		SoftSkills:         []string{},
		ExperienceKeywords: []string{},
		Education:          []string{},
	}
}

// List returns the list that holds terms of the given category.
func (r *ExtractionResult) List(c Category) []string {
	switch c {
	case CategoryTechnical:
		return r.TechnicalSkills
	case CategorySoft:
		return r.SoftSkills
	case CategoryExperience:
		return r.ExperienceKeywords
	case CategoryEducation:
		return r.Education
	default:
		return nil
	}
}

// IsEmpty reports whether nothing was extracted.
func (r *ExtractionResult) IsEmpty() bool {
	return len(r.TechnicalSkills) == 0 && len(r.SoftSkills) == 0 &&
		len(r.ExperienceKeywords) == 0 && len(r.Education) == 0
}
