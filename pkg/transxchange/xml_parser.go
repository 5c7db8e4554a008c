package transxchange

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

const rootElementName = "TransXChange"

var ErrMalformedDocument = errors.New("malformed transxchange document")

// ParseXMLFile decodes one TransXChange document. A document whose root element
// is missing or is not TransXChange decodes to an empty document without error.
func ParseXMLFile(reader io.Reader) (*TransXChange, error) {
	transXChange := TransXChange{}

	d := xml.NewDecoder(reader)
	d.CharsetReader = charset.NewReaderLabel

	depth := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return nil, fmt.Errorf("%w: decoding token: %w", ErrMalformedDocument, err)
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				if ty.Name.Local != rootElementName {
					log.Debug().Str("root", ty.Name.Local).Msg("Unrecognised root element")
					return &TransXChange{}, nil
				}

				for _, attr := range ty.Attr {
					switch attr.Name.Local {
					case "CreationDateTime":
						transXChange.CreationDateTime = attr.Value
					case "ModificationDateTime":
						transXChange.ModificationDateTime = attr.Value
					case "RevisionNumber":
						transXChange.RevisionNumber = attr.Value
					case "SchemaVersion":
						transXChange.SchemaVersion = attr.Value
					}
				}

				depth++
				continue
			}

			if err := transXChange.decodeElement(d, &ty, depth); err != nil {
				return nil, err
			}

			// decodeElement consumes the end element of anything it has decoded
			if !transXChange.decodesElement(ty.Name.Local, depth) {
				depth++
			}
		case xml.EndElement:
			depth--
		default:
		}
	}

	log.Debug().
		Int("operators", len(transXChange.Operators)).
		Int("services", len(transXChange.Services)).
		Int("journeypatternsections", len(transXChange.JourneyPatternSections)).
		Int("vehiclejourneys", len(transXChange.VehicleJourneys)).
		Str("modified", transXChange.ModificationDateTime).
		Msg("Successfully parsed document")

	return &transXChange, nil
}

func (doc *TransXChange) decodesElement(name string, depth int) bool {
	switch name {
	case "Operator", "LicensedOperator", "Service", "JourneyPatternSection", "VehicleJourney":
		return true
	case "ValidBetween", "OperatingPeriod":
		return depth == 1
	}

	return false
}

func (doc *TransXChange) decodeElement(d *xml.Decoder, start *xml.StartElement, depth int) error {
	if !doc.decodesElement(start.Name.Local, depth) {
		return nil
	}

	var err error

	switch start.Name.Local {
	case "Operator", "LicensedOperator":
		var operator Operator
		if err = d.DecodeElement(&operator, start); err == nil {
			doc.Operators = append(doc.Operators, &operator)
		}
	case "Service":
		var service Service
		if err = d.DecodeElement(&service, start); err == nil {
			doc.Services = append(doc.Services, &service)
		}
	case "JourneyPatternSection":
		var jps JourneyPatternSection
		if err = d.DecodeElement(&jps, start); err == nil {
			doc.JourneyPatternSections = append(doc.JourneyPatternSections, &jps)
		}
	case "VehicleJourney":
		var vehicleJourney VehicleJourney
		if err = d.DecodeElement(&vehicleJourney, start); err == nil {
			doc.VehicleJourneys = append(doc.VehicleJourneys, &vehicleJourney)
		}
	case "ValidBetween":
		var validBetween DateRange
		if err = d.DecodeElement(&validBetween, start); err == nil {
			doc.ValidBetween = &validBetween
		}
	case "OperatingPeriod":
		var operatingPeriod DateRange
		if err = d.DecodeElement(&operatingPeriod, start); err == nil {
			doc.OperatingPeriod = &operatingPeriod
		}
	}

	if err != nil {
		return fmt.Errorf("%w: decoding %s: %w", ErrMalformedDocument, start.Name.Local, err)
	}

	return nil
}
