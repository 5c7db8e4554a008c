package transxchange

type TransXChange struct {
	CreationDateTime     string `xml:",attr"`
	ModificationDateTime string `xml:",attr"`
	RevisionNumber       string `xml:",attr"`
	SchemaVersion        string `xml:",attr"`

	ValidBetween    *DateRange
	OperatingPeriod *DateRange

	Operators              []*Operator
	Services               []*Service
	JourneyPatternSections []*JourneyPatternSection
	VehicleJourneys        []*VehicleJourney
}

// DateRange covers both spellings used for validity periods
type DateRange struct {
	StartDate string
	EndDate   string
	FromDate  string
	ToDate    string
}

func (d *DateRange) Start() string {
	if d == nil {
		return ""
	}
	if d.StartDate != "" {
		return d.StartDate
	}

	return d.FromDate
}

func (d *DateRange) End() string {
	if d == nil {
		return ""
	}
	if d.EndDate != "" {
		return d.EndDate
	}

	return d.ToDate
}

type Operator struct {
	ID                   string `xml:"id,attr"`
	CreationDateTime     string `xml:",attr"`
	ModificationDateTime string `xml:",attr"`

	NationalOperatorCode  string
	OperatorCode          string
	OperatorShortName     string
	OperatorNameOnLicence string
	TradingName           string
	LicenceNumber         string
}

// Code prefers the canonical NOC, then the local operator code, then the element id
func (o *Operator) Code() string {
	if o.NationalOperatorCode != "" {
		return o.NationalOperatorCode
	}
	if o.OperatorCode != "" {
		return o.OperatorCode
	}

	return o.ID
}

func (o *Operator) Name() string {
	if o.OperatorShortName != "" {
		return o.OperatorShortName
	}
	if o.TradingName != "" {
		return o.TradingName
	}

	return o.OperatorNameOnLicence
}

type Service struct {
	CreationDateTime     string `xml:",attr"`
	ModificationDateTime string `xml:",attr"`
	RevisionNumber       string `xml:",attr"`

	ServiceCode           string
	RegisteredOperatorRef string
	OperatorRef           string
	OperatorNames         []string `xml:"OperatorName"`
	Description           string
	OperatingPeriod       DateRange

	Lines []Line `xml:"Lines>Line"`

	Origin      string `xml:"StandardService>Origin"`
	Destination string `xml:"StandardService>Destination"`
}

type Line struct {
	ID       string `xml:"id,attr"`
	LineName string
}

type JourneyPatternSection struct {
	ID string `xml:"id,attr"`

	JourneyPatternTimingLinks []JourneyPatternTimingLink `xml:"JourneyPatternTimingLink"`
}

type JourneyPatternTimingLink struct {
	ID string `xml:"id,attr"`

	From JourneyPatternTimingLinkPoint
	To   JourneyPatternTimingLinkPoint
}

type JourneyPatternTimingLinkPoint struct {
	ID             string `xml:"id,attr"`
	SequenceNumber string `xml:",attr"`

	StopPointRef string
}

type VehicleJourney struct {
	VehicleJourneyCode string
	ServiceRef         string
	LineRef            string
	JourneyPatternRef  string
	OperatorRef        string
}
