package transxchange

import (
	"fmt"
	"io"
	"time"
)

// ServiceFact is the normalised view of one declared service in one document
type ServiceFact struct {
	ServiceCode          string
	Ref                  string
	DisplayLine          string
	RawOperatorCode      string
	DocumentOperatorName string
	Revision             int
	PublicationTimestamp time.Time
	ValidFrom            *time.Time
	ValidTo              *time.Time
}

func (f ServiceFact) Bounds() DateBounds {
	return DateBounds{Start: f.ValidFrom, End: f.ValidTo}
}

// DateBounds is a possibly half-open validity interval. A nil side is unbounded.
type DateBounds struct {
	Start *time.Time
	End   *time.Time
}

func (b DateBounds) IsSet() bool {
	return b.Start != nil || b.End != nil
}

// Extraction holds everything the consolidation stages need from one document
type Extraction struct {
	Facts                     []ServiceFact
	StopRefs                  []string
	VehicleJourneyServiceRefs []string
	Operators                 map[string]string

	ValidBetween    DateBounds
	OperatingPeriod DateBounds
}

// BoundsFor lists the validity intervals that apply to fact in priority order
func (e *Extraction) BoundsFor(fact ServiceFact) []DateBounds {
	return []DateBounds{fact.Bounds(), e.ValidBetween, e.OperatingPeriod}
}

// ParseDocument decodes reader and extracts its facts in one step
func ParseDocument(reader io.Reader, location *time.Location) (*Extraction, error) {
	doc, err := ParseXMLFile(reader)
	if err != nil {
		return nil, err
	}

	return Extract(doc, location), nil
}

// Extract turns a decoded document into service facts. Every stop on any journey
// pattern of the document is associated with every service the document retains.
func Extract(doc *TransXChange, location *time.Location) *Extraction {
	extraction := &Extraction{
		Operators: map[string]string{},

		ValidBetween: DateBounds{
			Start: ParseDate(doc.ValidBetween.Start(), location),
			End:   ParseDate(doc.ValidBetween.End(), location),
		},
		OperatingPeriod: DateBounds{
			Start: ParseDate(doc.OperatingPeriod.Start(), location),
			End:   ParseDate(doc.OperatingPeriod.End(), location),
		},
	}

	operatorIndex := map[string]*Operator{}
	for _, operator := range doc.Operators {
		if operator.ID != "" {
			operatorIndex[operator.ID] = operator
		}
		if code := operator.Code(); code != "" {
			extraction.Operators[code] = operator.Name()
		}
	}

	stopsSeen := map[string]bool{}
	for _, section := range doc.JourneyPatternSections {
		for _, timingLink := range section.JourneyPatternTimingLinks {
			for _, stopRef := range []string{timingLink.From.StopPointRef, timingLink.To.StopPointRef} {
				if stopRef == "" || stopsSeen[stopRef] {
					continue
				}
				stopsSeen[stopRef] = true
				extraction.StopRefs = append(extraction.StopRefs, stopRef)
			}
		}
	}

	journeyServiceRefs := map[string]bool{}
	for _, vehicleJourney := range doc.VehicleJourneys {
		if vehicleJourney.ServiceRef == "" || journeyServiceRefs[vehicleJourney.ServiceRef] {
			continue
		}
		journeyServiceRefs[vehicleJourney.ServiceRef] = true
		extraction.VehicleJourneyServiceRefs = append(extraction.VehicleJourneyServiceRefs, vehicleJourney.ServiceRef)
	}

	for _, service := range doc.Services {
		// Documents with vehicle journeys only describe the services those journeys run
		if len(doc.VehicleJourneys) > 0 && !journeyServiceRefs[service.ServiceCode] {
			continue
		}

		operatorCode, operatorName := doc.serviceOperator(service, operatorIndex)

		fact := ServiceFact{
			ServiceCode:          service.ServiceCode,
			Ref:                  service.lineName(),
			RawOperatorCode:      operatorCode,
			DocumentOperatorName: operatorName,
			Revision:             doc.serviceRevision(service),
			PublicationTimestamp: doc.servicePublicationTimestamp(service),
			ValidFrom:            ParseDate(service.OperatingPeriod.Start(), location),
			ValidTo:              ParseDate(service.OperatingPeriod.End(), location),
		}
		fact.DisplayLine = service.displayLine(fact.Ref)

		extraction.Facts = append(extraction.Facts, fact)
	}

	return extraction
}

func (s *Service) lineName() string {
	for _, line := range s.Lines {
		if line.LineName != "" {
			return line.LineName
		}
	}

	return ""
}

func (s *Service) displayLine(ref string) string {
	if s.Description != "" {
		return s.Description
	}
	if s.Origin != "" && s.Destination != "" {
		return fmt.Sprintf("%s - %s", s.Origin, s.Destination)
	}

	return ref
}

// serviceOperator finds the raw operator code and document supplied name for a service
func (doc *TransXChange) serviceOperator(service *Service, operatorIndex map[string]*Operator) (string, string) {
	operatorRef := service.RegisteredOperatorRef
	if operatorRef == "" {
		operatorRef = service.OperatorRef
	}

	if operator := operatorIndex[operatorRef]; operatorRef != "" && operator != nil {
		return operator.Code(), operator.Name()
	}

	// Some documents dont use the correct reference in the services
	if len(doc.Operators) == 1 {
		return doc.Operators[0].Code(), doc.Operators[0].Name()
	}

	for _, name := range service.OperatorNames {
		if name == "" {
			continue
		}

		if operatorRef != "" {
			return operatorRef, name
		}
		return name, name
	}

	return operatorRef, ""
}

func (doc *TransXChange) serviceRevision(service *Service) int {
	if revision, ok := parseRevision(service.RevisionNumber); ok {
		return revision
	}
	if revision, ok := parseRevision(doc.RevisionNumber); ok {
		return revision
	}

	return 0
}

func (doc *TransXChange) servicePublicationTimestamp(service *Service) time.Time {
	for _, value := range []string{
		service.ModificationDateTime,
		service.CreationDateTime,
		doc.ModificationDateTime,
		doc.CreationDateTime,
	} {
		if timestamp, ok := ParseDateTime(value); ok {
			return timestamp
		}
	}

	return time.Unix(0, 0).UTC()
}
