package operators

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/util"
	"golang.org/x/net/html/charset"
)

type NOCTableRecord struct {
	NOCCode            string `xml:"NOCCODE"`
	OperatorPublicName string
	VOSAPSVLicenseName string `xml:"VOSA_PSVLicenseName"`
	OperatorID         string `xml:"OpId"`
	PublicNameID       string `xml:"PubNmId"`
}

// ParseTravelineData reads the NOCTableRecords of a travelinedata XML export
func ParseTravelineData(reader io.Reader) (map[string]string, error) {
	codes := map[string]string{}
	recordCount := 0

	d := xml.NewDecoder(util.NewValidUTF8Reader(reader))
	d.CharsetReader = charset.NewReaderLabel
	for {
		tok, err := d.Token()
		if tok == nil || err == io.EOF {
			// EOF means we're done.
			break
		} else if err != nil {
			return nil, err
		}

		switch ty := tok.(type) {
		case xml.StartElement:
			if ty.Name.Local != "NOCTableRecord" {
				continue
			}

			var record NOCTableRecord
			if err = d.DecodeElement(&record, &ty); err != nil {
				return nil, err
			}
			recordCount++

			code := strings.TrimSpace(record.NOCCode)
			name := strings.TrimSpace(record.OperatorPublicName)
			if name == "" {
				name = strings.TrimSpace(record.VOSAPSVLicenseName)
			}

			if code == "" || name == "" {
				continue
			}
			if _, exists := codes[code]; !exists {
				codes[code] = name
			}
		default:
		}
	}

	log.Debug().Int("records", recordCount).Msg("Parsed travelinedata NOCTableRecords")

	return codes, nil
}
