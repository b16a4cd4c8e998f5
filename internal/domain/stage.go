package domain

// Stage is one named step in a sales pipeline.
type Stage struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// StageCatalog maps human-readable stage names to stage ids. It is fetched
// fresh on every sweep, never cached.
type StageCatalog map[string]int64

// NewStageCatalog builds a catalog from a stage listing. When two stages
// share a name the later one wins.
func NewStageCatalog(stages []Stage) StageCatalog {
	c := make(StageCatalog, len(stages))
	for _, s := range stages {
		c[s.Name] = s.ID
	}
	return c
}

// Lookup resolves a stage name to its id. A missing name is not an error;
// thresholds gated on it simply never match.
func (c StageCatalog) Lookup(name string) (int64, bool) {
	id, ok := c[name]
	return id, ok
}
