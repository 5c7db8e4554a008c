package consolidator

import (
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var numericRefRegex = regexp.MustCompile(`^\d+$`)

// Output is the frozen index: stop identifier to its services in display order
type Output map[string][]ResolvedService

// StopIDs lists the output's stops in lexical order
func (o Output) StopIDs() []string {
	return slices.Sorted(maps.Keys(o))
}

func (o Output) ServiceCount() int {
	count := 0
	for _, services := range o {
		count += len(services)
	}

	return count
}

// BuildOutput freezes the index into sorted per stop arrays
func BuildOutput(index *StopServiceIndex) Output {
	sorter := NewServiceSorter()

	output := Output{}
	for stopID := range index.stops {
		services := index.Services(stopID)
		sorter.Sort(services)

		output[stopID] = services
	}

	return output
}

// ServiceSorter orders services for display. Not safe for concurrent use.
type ServiceSorter struct {
	collator *collate.Collator
}

func NewServiceSorter() *ServiceSorter {
	return &ServiceSorter{
		collator: collate.New(language.English, collate.Numeric),
	}
}

func (s *ServiceSorter) Sort(services []ResolvedService) {
	sort.SliceStable(services, func(i, j int) bool {
		return s.Less(services[i], services[j])
	})
}

// Less puts purely numeric refs first in numeric order, then everything else in
// numeric aware collation order of ref, or name when ref is empty
func (s *ServiceSorter) Less(a ResolvedService, b ResolvedService) bool {
	aNumeric := numericRefRegex.MatchString(a.Ref)
	bNumeric := numericRefRegex.MatchString(b.Ref)

	if aNumeric && bNumeric {
		if comparison := compareDigits(a.Ref, b.Ref); comparison != 0 {
			return comparison < 0
		}
	} else if aNumeric != bNumeric {
		return aNumeric
	}

	if comparison := s.collator.CompareString(sortLabel(a), sortLabel(b)); comparison != 0 {
		return comparison < 0
	}

	return a.IdentityKey() < b.IdentityKey()
}

func sortLabel(service ResolvedService) string {
	if service.Ref != "" {
		return service.Ref
	}

	return service.Name
}

// compareDigits compares two digit strings by value without converting to integers
func compareDigits(a string, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}

	return strings.Compare(a, b)
}
