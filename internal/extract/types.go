package extract

// Requirement is one behavioral expectation to be judged.
type Requirement struct {
	ID          int    `json:"id"`
	Requirement string `json:"requirement"`
}

// TestSpec is the structured form of a prompt test file. It is built once
// per file by Extract and never mutated afterwards.
type TestSpec struct {
	SubjectPrompt string        `json:"subjectPrompt"`
	Context       string        `json:"context"`
	ImportPaths   []string      `json:"importPaths"`
	Requirements  []Requirement `json:"requirements"`
}
