package models

// CodebaseInfo summarizes the technologies detected in a project directory.
// The orchestration layer treats it as opaque context data for the analysis
// prompt.
type CodebaseInfo struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	KeyFiles   []string `json:"key_files"`
}

// AnalysisResult is the implementation plan derived from a backlog card and
// a codebase scan.
type AnalysisResult struct {
	Framework     string   `json:"framework"`
	FilesToModify []string `json:"files_to_modify,omitempty"`
	FilesToCreate []string `json:"files_to_create,omitempty"`
	Requirements  string   `json:"requirements,omitempty"`
	Dependencies  []string `json:"dependencies,omitempty"`
}

// DefaultAnalysisResult returns the fallback plan used when analysis output
// cannot be decoded.
func DefaultAnalysisResult(description string) AnalysisResult {
	return AnalysisResult{
		Framework:    "HTML/CSS/JS",
		Requirements: description,
	}
}
