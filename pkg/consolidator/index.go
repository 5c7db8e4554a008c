package consolidator

import (
	"encoding/json"
)

// ResolvedService is what gets published for each stop
type ResolvedService struct {
	Ref          string `json:"ref" groups:"basic"`
	Name         string `json:"name" groups:"basic"`
	Operator     string `json:"operator" groups:"basic"`
	OperatorCode string `json:"operatorCode" groups:"basic"`
	ServiceCode  string `json:"serviceCode" groups:"basic"`
}

// IdentityKey is the first of ref, name and service code that is set, or the
// whole record serialised when none are
func (s ResolvedService) IdentityKey() string {
	if s.Ref != "" {
		return s.Ref
	}
	if s.Name != "" {
		return s.Name
	}
	if s.ServiceCode != "" {
		return s.ServiceCode
	}

	serialised, _ := json.Marshal(s)
	return string(serialised)
}

// StopServiceIndex maps stop identifiers to the services calling there, one per identity key
type StopServiceIndex struct {
	stops map[string]map[string]ResolvedService
}

func NewStopServiceIndex() *StopServiceIndex {
	return &StopServiceIndex{stops: map[string]map[string]ResolvedService{}}
}

// Add associates service with stopID unless the stop already holds a service with the
// same identity key. A newer record for the same service code replaces the old one.
// Returns whether the index changed.
func (i *StopServiceIndex) Add(stopID string, service ResolvedService) bool {
	services, exists := i.stops[stopID]
	if !exists {
		services = map[string]ResolvedService{}
		i.stops[stopID] = services
	}

	key := service.IdentityKey()
	existing, present := services[key]
	if present && (existing == service || existing.ServiceCode == "" || existing.ServiceCode != service.ServiceCode) {
		return false
	}

	services[key] = service
	return true
}

func (i *StopServiceIndex) Services(stopID string) []ResolvedService {
	services := make([]ResolvedService, 0, len(i.stops[stopID]))
	for _, service := range i.stops[stopID] {
		services = append(services, service)
	}

	return services
}

func (i *StopServiceIndex) StopCount() int {
	return len(i.stops)
}

func (i *StopServiceIndex) AssociationCount() int {
	count := 0
	for _, services := range i.stops {
		count += len(services)
	}

	return count
}
