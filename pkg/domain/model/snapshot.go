package model

import "time"

// Snapshot bundles the organization, the resolved project and the most
// recent build per definition from exactly one refresh cycle. A snapshot is
// never mutated after construction; each cycle builds a new one.
type Snapshot struct {
	Organization string    `json:"organization"`
	Project      *Project  `json:"project"`
	Builds       []Build   `json:"builds"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// NewSnapshot constructs a snapshot for one refresh cycle
func NewSnapshot(organization string, project *Project, builds []Build) *Snapshot {
	return &Snapshot{
		Organization: organization,
		Project:      project,
		Builds:       builds,
		FetchedAt:    time.Now(),
	}
}

// BuildChange describes a build definition whose result differs between two
// consecutive snapshots
type BuildChange struct {
	Definition Definition `json:"definition"`
	Previous   Build      `json:"previous"`
	Current    Build      `json:"current"`
}

// ChangesSince compares this snapshot against the previous one and returns
// one change per build definition whose result moved. Definitions that only
// appear in one of the two snapshots are not reported; there is nothing to
// compare them against.
func (s *Snapshot) ChangesSince(prev *Snapshot) []BuildChange {
	if prev == nil {
		return nil
	}

	prevByDef := make(map[int]Build, len(prev.Builds))
	for _, b := range prev.Builds {
		prevByDef[b.Definition.ID] = b
	}

	var changes []BuildChange
	for _, b := range s.Builds {
		p, ok := prevByDef[b.Definition.ID]
		if !ok {
			continue
		}
		if p.Result == b.Result {
			continue
		}
		changes = append(changes, BuildChange{
			Definition: b.Definition,
			Previous:   p,
			Current:    b,
		})
	}

	return changes
}
