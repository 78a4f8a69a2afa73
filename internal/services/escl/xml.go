package escl

import (
	"fmt"
	"strings"
)

// Scanner states reported in ScannerStatus.
const (
	StateIdle        = "Idle"
	AdfStateLoaded   = "ScannerAdfLoaded"
	inputSourceADF   = "Feeder"
	inputSourcePlate = "Platen"
)

// Capabilities is the subset of ScannerCapabilities the client inspects.
type Capabilities struct {
	Version      string    `xml:"Version"`
	MakeAndModel string    `xml:"MakeAndModel"`
	SerialNumber string    `xml:"SerialNumber"`
	Platen       *struct{} `xml:"Platen"`
	Adf          *struct{} `xml:"Adf"`
}

// SupportsSource reports whether the scanner advertises the configured
// source ("ADF" or "Flatbed").
func (c Capabilities) SupportsSource(source string) bool {
	switch source {
	case "ADF":
		return c.Adf != nil
	case "Flatbed":
		return c.Platen != nil
	default:
		return false
	}
}

// Status is the subset of ScannerStatus the client polls.
type Status struct {
	State    string `xml:"State"`
	AdfState string `xml:"AdfState"`
}

// Idle reports whether the scanner can accept a job.
func (s Status) Idle() bool { return s.State == StateIdle }

// AdfLoaded reports whether paper sits in the feeder.
func (s Status) AdfLoaded() bool { return s.AdfState == AdfStateLoaded }

func inputSource(source string) (string, error) {
	switch source {
	case "ADF":
		return inputSourceADF, nil
	case "Flatbed":
		return inputSourcePlate, nil
	default:
		return "", fmt.Errorf("unknown scan source %q", source)
	}
}

// scanSettings renders the ScanSettings job body: a letter-width region of
// 2550x4200 three-hundredths of an inch, PDF output, 24-bit colour.
func scanSettings(source string, resolution int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<scan:ScanSettings xmlns:pwg="http://www.pwg.org/schema/2010/12/sm" xmlns:scan="http://schema.hp.com/imaging/escl/2011/05/03">`)
	b.WriteString(`<pwg:Version>2.6</pwg:Version>`)
	b.WriteString(`<scan:Intent>Document</scan:Intent>`)
	fmt.Fprintf(&b, `<pwg:InputSource>%s</pwg:InputSource>`, source)
	b.WriteString(`<pwg:ScanRegions><pwg:ScanRegion>`)
	b.WriteString(`<pwg:ContentRegionUnits>escl:ThreeHundredthsOfInches</pwg:ContentRegionUnits>`)
	b.WriteString(`<pwg:XOffset>0</pwg:XOffset><pwg:YOffset>0</pwg:YOffset>`)
	b.WriteString(`<pwg:Width>2550</pwg:Width><pwg:Height>4200</pwg:Height>`)
	b.WriteString(`</pwg:ScanRegion></pwg:ScanRegions>`)
	b.WriteString(`<pwg:DocumentFormat>application/pdf</pwg:DocumentFormat>`)
	b.WriteString(`<scan:DocumentFormatExt>application/pdf</scan:DocumentFormatExt>`)
	b.WriteString(`<scan:ColorMode>RGB24</scan:ColorMode>`)
	fmt.Fprintf(&b, `<scan:XResolution>%d</scan:XResolution><scan:YResolution>%d</scan:YResolution>`, resolution, resolution)
	b.WriteString(`</scan:ScanSettings>`)
	return b.String()
}
