package notebook

// Line is one row of the notebook. Its identity is its position.
type Line struct {
	Input        string `json:"input" yaml:"input"`
	Result       string `json:"result" yaml:"result"`
	HasError     bool   `json:"hasError" yaml:"hasError"`
	ErrorMessage string `json:"errorMessage" yaml:"errorMessage"`
}

// Snapshot is the persisted form of a notebook.
type Snapshot struct {
	Lines []Line `json:"lines" yaml:"lines"`

	// Revision orders snapshots taken from the same notebook. Zero means
	// unordered. It is not persisted.
	Revision uint64 `json:"-" yaml:"-"`
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	if s.Lines == nil {
		return Snapshot{Revision: s.Revision}
	}
	return Snapshot{Lines: append([]Line(nil), s.Lines...), Revision: s.Revision}
}

// Inputs builds unevaluated lines from raw text.
func Inputs(texts ...string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Input: t}
	}
	return lines
}
