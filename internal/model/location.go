// Package model defines the normalized location record loaded by locseed.
package model

import "strings"

// Table is the destination table for normalized location records.
const Table = "norwegian_locations"

// Category defaults. Only street-address locations are modelled today.
const (
	CategoryStreetAddress            = "G"
	CategoryStreetAddressDescription = "Street address"
)

// Columns lists the destination columns in insert order.
var Columns = []string{
	"postal_code",
	"place_name",
	"municipality_code",
	"municipality_name",
	"county_name",
	"county_code",
	"region",
	"category",
	"category_description",
}

// LocationRecord is a single postal-code/place entry. Every field is a plain
// string, so a normalized record never has an absent field, only empty ones.
type LocationRecord struct {
	PostalCode          string `json:"postal_code" yaml:"postal_code"`
	PlaceName           string `json:"place_name" yaml:"place_name"`
	MunicipalityName    string `json:"municipality_name" yaml:"municipality_name"`
	MunicipalityCode    string `json:"municipality_code" yaml:"municipality_code"`
	CountyName          string `json:"county_name" yaml:"county_name"`
	CountyCode          string `json:"county_code" yaml:"county_code"`
	Category            string `json:"category" yaml:"category"`
	CategoryDescription string `json:"category_description" yaml:"category_description"`
}

// NewStreetAddress builds a normalized street-address record.
func NewStreetAddress(postalCode, placeName, municipalityName, countyName, municipalityCode, countyCode string) LocationRecord {
	return LocationRecord{
		PostalCode:       postalCode,
		PlaceName:        placeName,
		MunicipalityName: municipalityName,
		MunicipalityCode: municipalityCode,
		CountyName:       countyName,
		CountyCode:       countyCode,
	}.Normalize()
}

// Normalize returns a copy with whitespace trimmed and category defaults applied.
func (r LocationRecord) Normalize() LocationRecord {
	out := LocationRecord{
		PostalCode:          strings.TrimSpace(r.PostalCode),
		PlaceName:           strings.TrimSpace(r.PlaceName),
		MunicipalityName:    strings.TrimSpace(r.MunicipalityName),
		MunicipalityCode:    strings.TrimSpace(r.MunicipalityCode),
		CountyName:          strings.TrimSpace(r.CountyName),
		CountyCode:          strings.TrimSpace(r.CountyCode),
		Category:            strings.TrimSpace(r.Category),
		CategoryDescription: strings.TrimSpace(r.CategoryDescription),
	}
	if out.Category == "" {
		out.Category = CategoryStreetAddress
	}
	if out.CategoryDescription == "" {
		out.CategoryDescription = CategoryStreetAddressDescription
	}
	return out
}

// Row returns the insert values in Columns order. Region is never populated.
func (r LocationRecord) Row() []any {
	return []any{
		r.PostalCode,
		r.PlaceName,
		r.MunicipalityCode,
		r.MunicipalityName,
		r.CountyName,
		r.CountyCode,
		"",
		r.Category,
		r.CategoryDescription,
	}
}

// Label identifies the record in log lines.
func (r LocationRecord) Label() string {
	switch {
	case r.PlaceName != "" && r.PostalCode != "":
		return r.PostalCode + " " + r.PlaceName
	case r.PlaceName != "":
		return r.PlaceName
	case r.PostalCode != "":
		return r.PostalCode
	default:
		return "unknown"
	}
}
