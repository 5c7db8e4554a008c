package transxchange_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/travigo/stopservices/pkg/transxchange"
)

var london, _ = time.LoadLocation("Europe/London")

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<TransXChange xmlns="http://www.transxchange.org.uk/" CreationDateTime="2024-01-02T09:00:00" ModificationDateTime="2024-03-04T10:30:00+00:00" RevisionNumber="4" SchemaVersion="2.4">
  <OperatingPeriod>
    <StartDate>2024-01-01</StartDate>
    <EndDate>2024-12-31</EndDate>
  </OperatingPeriod>
  <Operators>
    <Operator id="O1">
      <NationalOperatorCode>ABCD</NationalOperatorCode>
      <OperatorCode>AB</OperatorCode>
      <OperatorShortName>Acme</OperatorShortName>
    </Operator>
    <LicensedOperator id="O2">
      <OperatorCode>EFG</OperatorCode>
      <TradingName>Efg Travel</TradingName>
    </LicensedOperator>
  </Operators>
  <Services>
    <Service RevisionNumber="7" ModificationDateTime="2024-02-01T08:00:00">
      <ServiceCode>S1</ServiceCode>
      <Lines>
        <Line id="L1"><LineName>12</LineName></Line>
      </Lines>
      <OperatingPeriod>
        <StartDate>2024-02-01</StartDate>
      </OperatingPeriod>
      <RegisteredOperatorRef>O2</RegisteredOperatorRef>
      <StandardService>
        <Origin>Town</Origin>
        <Destination>City</Destination>
      </StandardService>
    </Service>
    <Service>
      <ServiceCode>S2</ServiceCode>
      <Lines>
        <Line id="L2"><LineName>X2</LineName></Line>
      </Lines>
      <Description>Express</Description>
      <RegisteredOperatorRef>O1</RegisteredOperatorRef>
    </Service>
    <Service>
      <ServiceCode>S3</ServiceCode>
    </Service>
  </Services>
  <JourneyPatternSections>
    <JourneyPatternSection id="JPS1">
      <JourneyPatternTimingLink id="JPTL1">
        <From><StopPointRef>A</StopPointRef></From>
        <To><StopPointRef>B</StopPointRef></To>
      </JourneyPatternTimingLink>
      <JourneyPatternTimingLink id="JPTL2">
        <From><StopPointRef>B</StopPointRef></From>
        <To><StopPointRef>C</StopPointRef></To>
      </JourneyPatternTimingLink>
    </JourneyPatternSection>
  </JourneyPatternSections>
  <VehicleJourneys>
    <VehicleJourney>
      <VehicleJourneyCode>VJ1</VehicleJourneyCode>
      <ServiceRef>S1</ServiceRef>
    </VehicleJourney>
    <VehicleJourney>
      <VehicleJourneyCode>VJ2</VehicleJourneyCode>
      <ServiceRef>S2</ServiceRef>
    </VehicleJourney>
  </VehicleJourneys>
</TransXChange>`

func TestParseDocument(t *testing.T) {
	extraction, err := transxchange.ParseDocument(strings.NewReader(sampleDocument), london)
	require.NoError(t, err)

	require.Equal(t, []string{"A", "B", "C"}, extraction.StopRefs)
	require.Equal(t, []string{"S1", "S2"}, extraction.VehicleJourneyServiceRefs)
	require.Equal(t, map[string]string{"ABCD": "Acme", "EFG": "Efg Travel"}, extraction.Operators)

	require.Len(t, extraction.Facts, 2, "S3 has no vehicle journeys")

	s1 := extraction.Facts[0]
	require.Equal(t, "S1", s1.ServiceCode)
	require.Equal(t, "12", s1.Ref)
	require.Equal(t, "Town - City", s1.DisplayLine)
	require.Equal(t, "EFG", s1.RawOperatorCode)
	require.Equal(t, "Efg Travel", s1.DocumentOperatorName)
	require.Equal(t, 7, s1.Revision)
	require.Equal(t, time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC), s1.PublicationTimestamp)
	require.NotNil(t, s1.ValidFrom)
	require.Nil(t, s1.ValidTo)
	require.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, london), *s1.ValidFrom)

	s2 := extraction.Facts[1]
	require.Equal(t, "X2", s2.Ref)
	require.Equal(t, "Express", s2.DisplayLine)
	require.Equal(t, "ABCD", s2.RawOperatorCode)
	require.Equal(t, 4, s2.Revision, "falls back to the document revision")
	require.True(t, s2.PublicationTimestamp.Equal(time.Date(2024, 3, 4, 10, 30, 0, 0, time.UTC)))

	require.True(t, extraction.OperatingPeriod.IsSet())
	require.False(t, extraction.ValidBetween.IsSet())
	require.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, london), *extraction.OperatingPeriod.End)
}

func TestParseDocumentWithoutVehicleJourneysKeepsAllServices(t *testing.T) {
	document := `<TransXChange>
  <ValidBetween><FromDate>2024-05-01</FromDate><ToDate>2024-06-01</ToDate></ValidBetween>
  <Services>
    <Service><ServiceCode>S1</ServiceCode></Service>
    <Service><ServiceCode>S2</ServiceCode></Service>
  </Services>
</TransXChange>`

	extraction, err := transxchange.ParseDocument(strings.NewReader(document), london)
	require.NoError(t, err)
	require.Len(t, extraction.Facts, 2)
	require.Equal(t, 0, extraction.Facts[0].Revision)
	require.True(t, extraction.Facts[0].PublicationTimestamp.Equal(time.Unix(0, 0)))
	require.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, london), *extraction.ValidBetween.Start)
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, london), *extraction.ValidBetween.End)
}

func TestParseDocumentUnrecognisedRoot(t *testing.T) {
	for name, document := range map[string]string{
		"other root": `<NeTEx><Services><Service><ServiceCode>S1</ServiceCode></Service></Services></NeTEx>`,
		"empty":      ``,
	} {
		t.Run(name, func(t *testing.T) {
			extraction, err := transxchange.ParseDocument(strings.NewReader(document), london)
			require.NoError(t, err)
			require.Empty(t, extraction.Facts)
			require.Empty(t, extraction.StopRefs)
		})
	}
}

func TestParseDocumentMalformed(t *testing.T) {
	_, err := transxchange.ParseDocument(strings.NewReader(`<TransXChange><Services><Service>`), london)
	require.ErrorIs(t, err, transxchange.ErrMalformedDocument)
}

func TestServiceOperatorFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		document string
		wantCode string
		wantName string
	}{
		{
			name: "sole operator assumed",
			document: `<TransXChange><Operators><Operator id="X"><OperatorCode>SOLE</OperatorCode><OperatorNameOnLicence>Sole Ltd</OperatorNameOnLicence></Operator></Operators>
<Services><Service><ServiceCode>S</ServiceCode><RegisteredOperatorRef>missing</RegisteredOperatorRef></Service></Services></TransXChange>`,
			wantCode: "SOLE",
			wantName: "Sole Ltd",
		},
		{
			name: "element id when no codes",
			document: `<TransXChange><Operators><Operator id="OId_1"><OperatorShortName>Short</OperatorShortName></Operator><Operator id="OId_2"/></Operators>
<Services><Service><ServiceCode>S</ServiceCode><RegisteredOperatorRef>OId_1</RegisteredOperatorRef></Service></Services></TransXChange>`,
			wantCode: "OId_1",
			wantName: "Short",
		},
		{
			name: "service operator name",
			document: `<TransXChange><Services><Service><ServiceCode>S</ServiceCode><OperatorName></OperatorName><OperatorName>Local Line</OperatorName></Service></Services></TransXChange>`,
			wantCode: "Local Line",
			wantName: "Local Line",
		},
		{
			name: "service operator name keeps raw reference",
			document: `<TransXChange><Operators><Operator id="A"/><Operator id="B"/></Operators>
<Services><Service><ServiceCode>S</ServiceCode><OperatorRef>TKT_OID:9</OperatorRef><OperatorName>Local Line</OperatorName></Service></Services></TransXChange>`,
			wantCode: "TKT_OID:9",
			wantName: "Local Line",
		},
		{
			name:     "nothing known",
			document: `<TransXChange><Services><Service><ServiceCode>S</ServiceCode></Service></Services></TransXChange>`,
			wantCode: "",
			wantName: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extraction, err := transxchange.ParseDocument(strings.NewReader(tt.document), london)
			require.NoError(t, err)
			require.Len(t, extraction.Facts, 1)
			require.Equal(t, tt.wantCode, extraction.Facts[0].RawOperatorCode)
			require.Equal(t, tt.wantName, extraction.Facts[0].DocumentOperatorName)
		})
	}
}

func TestParseDate(t *testing.T) {
	require.Nil(t, transxchange.ParseDate("", london))
	require.Nil(t, transxchange.ParseDate("next week", london))
	require.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, london), *transxchange.ParseDate("2024-07-01T23:30:00+01:00", london))

	parsed, ok := transxchange.ParseDateTime("2024-07-01T23:30:00Z")
	require.True(t, ok)
	require.Equal(t, time.Date(2024, 7, 1, 23, 30, 0, 0, time.UTC), parsed.UTC())

	_, ok = transxchange.ParseDateTime("yesterday")
	require.False(t, ok)
}
