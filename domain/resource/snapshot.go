package resource

import "time"

// Snapshot is an immutable record of the store produced by one load cycle.
type Snapshot struct {
	ID        string
	Path      string
	Overlay   string
	Location  string
	LoadedAt  time.Time
	Exact     map[string]string
	Wildcards []Wildcard
}

// SnapshotHeader describes a snapshot without its entries.
type SnapshotHeader struct {
	ID            string
	Path          string
	Overlay       string
	Location      string
	LoadedAt      time.Time
	ExactCount    int
	WildcardCount int
}

// Header returns the snapshot's header.
func (sn Snapshot) Header() SnapshotHeader {
	return SnapshotHeader{
		ID:            sn.ID,
		Path:          sn.Path,
		Overlay:       sn.Overlay,
		Location:      sn.Location,
		LoadedAt:      sn.LoadedAt,
		ExactCount:    len(sn.Exact),
		WildcardCount: len(sn.Wildcards),
	}
}

// NewSnapshot captures the current contents of s.
func NewSnapshot(id string, s *Store) Snapshot {
	return Snapshot{
		ID:        id,
		Exact:     s.Exact(),
		Wildcards: s.Wildcards(),
	}
}

// Store rebuilds a store from the snapshot. Wildcard order is preserved.
func (sn Snapshot) Store() *Store {
	s := NewStore()
	for k, v := range sn.Exact {
		s.exact[k] = v
	}
	s.wildcards = append(s.wildcards, sn.Wildcards...)
	return s
}
