package consolidator

import "time"

type VersionKey struct {
	Revision             int
	PublicationTimestamp time.Time
}

// Supersedes is true when k is strictly newer than other
func (k VersionKey) Supersedes(other VersionKey) bool {
	if k.Revision != other.Revision {
		return k.Revision > other.Revision
	}

	return k.PublicationTimestamp.After(other.PublicationTimestamp)
}

// VersionResolver keeps the newest version seen for each service code across a run
type VersionResolver struct {
	current map[string]VersionKey
}

func NewVersionResolver() *VersionResolver {
	return &VersionResolver{current: map[string]VersionKey{}}
}

// Offer records key as the current version of serviceCode when it supersedes the
// retained one, or when the code has not been seen. It returns whether key was kept.
func (v *VersionResolver) Offer(serviceCode string, key VersionKey) bool {
	if serviceCode == "" {
		return true
	}

	existing, seen := v.current[serviceCode]
	if seen && !key.Supersedes(existing) {
		return false
	}

	v.current[serviceCode] = key
	return true
}

func (v *VersionResolver) Current(serviceCode string) (VersionKey, bool) {
	key, seen := v.current[serviceCode]
	return key, seen
}

func (v *VersionResolver) Len() int {
	return len(v.current)
}
