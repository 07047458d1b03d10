package types

// MatchResult is the outcome of scoring a source document against a target document.
// Scores are on a 0-100 scale rounded to one decimal.
type MatchResult struct {
	OverallScore         float64         `json:"overall_score"`
	SkillMatchScore      float64         `json:"skill_match_score"`
	ExperienceMatchScore float64         `json:"experience_match_score"`
	MatchedSkills        []string        `json:"matched_skills"`
	MissingSkills        []string        `json:"missing_skills"`
	SkillCategories      SkillCategories `json:"skill_categories"`
}

// SkillCategories breaks matched and missing skills down by category and keeps
// each side's extracted technical and soft lists as they were extracted.
type SkillCategories struct {
	MatchedTechnical []string `json:"matched_technical"`
	MissingTechnical []string `json:"missing_technical"`
	MatchedSoft      []string `json:"matched_soft"`
	MissingSoft      []string `json:"missing_soft"`
	ResumeTechnical  []string `json:"resume_technical"`
	ResumeSoft       []string `json:"resume_soft"`
	JobTechnical     []string `json:"job_technical"`
	JobSoft          []string `json:"job_soft"`
}
