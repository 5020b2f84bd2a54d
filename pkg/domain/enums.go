package domain

import (
	dErrors "schemeteller/pkg/domain-errors"
)

// Gender is the self-declared gender on a citizen profile.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

var genders = map[Gender]struct{}{
	GenderMale: {}, GenderFemale: {}, GenderOther: {},
}

// ParseGender validates an external gender value.
func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if _, ok := genders[g]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "gender must be one of MALE, FEMALE, OTHER")
	}
	return g, nil
}

// Category is the social category on a citizen profile.
type Category string

const (
	CategoryGeneral Category = "GENERAL"
	CategoryOBC     Category = "OBC"
	CategorySC      Category = "SC"
	CategoryST      Category = "ST"
	CategoryEWS     Category = "EWS"
)

var categories = map[Category]struct{}{
	CategoryGeneral: {}, CategoryOBC: {}, CategorySC: {}, CategoryST: {}, CategoryEWS: {},
}

// ParseCategory validates an external category value.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categories[c]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "category must be one of GENERAL, OBC, SC, ST, EWS")
	}
	return c, nil
}

// Occupation is the declared occupation on a citizen profile.
type Occupation string

const (
	OccupationSalaried     Occupation = "SALARIED"
	OccupationSelfEmployed Occupation = "SELF_EMPLOYED"
	OccupationFarmer       Occupation = "FARMER"
	OccupationStudent      Occupation = "STUDENT"
	OccupationUnemployed   Occupation = "UNEMPLOYED"
	OccupationRetired      Occupation = "RETIRED"
	OccupationOther        Occupation = "OTHER"
)

var occupations = map[Occupation]struct{}{
	OccupationSalaried: {}, OccupationSelfEmployed: {}, OccupationFarmer: {},
	OccupationStudent: {}, OccupationUnemployed: {}, OccupationRetired: {}, OccupationOther: {},
}

// ParseOccupation validates an external occupation value.
func ParseOccupation(s string) (Occupation, error) {
	o := Occupation(s)
	if _, ok := occupations[o]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "occupation is not a recognised value")
	}
	return o, nil
}

// IncomeBracket is one of six ordered buckets derived from annual income.
// Derivation lives in the eligibility engine; the type is shared because the
// bracket is also persisted on the user record.
type IncomeBracket string

const (
	BracketBelow1L  IncomeBracket = "BELOW_1L"
	Bracket1LTo2_5L IncomeBracket = "1L_TO_2_5L"
	Bracket2_5LTo5L IncomeBracket = "2_5L_TO_5L"
	Bracket5LTo8L   IncomeBracket = "5L_TO_8L"
	Bracket8LTo10L  IncomeBracket = "8L_TO_10L"
	BracketAbove10L IncomeBracket = "ABOVE_10L"
)

// Region is a state or union-territory code.
type Region string

const (
	RegionAndamanNicobar          Region = "ANDAMAN_NICOBAR"
	RegionAndhraPradesh           Region = "ANDHRA_PRADESH"
	RegionArunachalPradesh        Region = "ARUNACHAL_PRADESH"
	RegionAssam                   Region = "ASSAM"
	RegionBihar                   Region = "BIHAR"
	RegionChandigarh              Region = "CHANDIGARH"
	RegionChhattisgarh            Region = "CHHATTISGARH"
	RegionDadraNagarHaveliDamanDiu Region = "DADRA_NAGAR_HAVELI_DAMAN_DIU"
	RegionDelhi                   Region = "DELHI"
	RegionGoa                     Region = "GOA"
	RegionGujarat                 Region = "GUJARAT"
	RegionHaryana                 Region = "HARYANA"
	RegionHimachalPradesh         Region = "HIMACHAL_PRADESH"
	RegionJammuKashmir            Region = "JAMMU_KASHMIR"
	RegionJharkhand               Region = "JHARKHAND"
	RegionKarnataka               Region = "KARNATAKA"
	RegionKerala                  Region = "KERALA"
	RegionLadakh                  Region = "LADAKH"
	RegionLakshadweep             Region = "LAKSHADWEEP"
	RegionMadhyaPradesh           Region = "MADHYA_PRADESH"
	RegionMaharashtra             Region = "MAHARASHTRA"
	RegionManipur                 Region = "MANIPUR"
	RegionMeghalaya               Region = "MEGHALAYA"
	RegionMizoram                 Region = "MIZORAM"
	RegionNagaland                Region = "NAGALAND"
	RegionOdisha                  Region = "ODISHA"
	RegionPuducherry              Region = "PUDUCHERRY"
	RegionPunjab                  Region = "PUNJAB"
	RegionRajasthan               Region = "RAJASTHAN"
	RegionSikkim                  Region = "SIKKIM"
	RegionTamilNadu               Region = "TAMIL_NADU"
	RegionTelangana               Region = "TELANGANA"
	RegionTripura                 Region = "TRIPURA"
	RegionUttarPradesh            Region = "UTTAR_PRADESH"
	RegionUttarakhand             Region = "UTTARAKHAND"
	RegionWestBengal              Region = "WEST_BENGAL"
)

// Regions lists every recognised state and union-territory code in stable order.
var Regions = []Region{
	RegionAndamanNicobar, RegionAndhraPradesh, RegionArunachalPradesh, RegionAssam,
	RegionBihar, RegionChandigarh, RegionChhattisgarh, RegionDadraNagarHaveliDamanDiu,
	RegionDelhi, RegionGoa, RegionGujarat, RegionHaryana, RegionHimachalPradesh,
	RegionJammuKashmir, RegionJharkhand, RegionKarnataka, RegionKerala, RegionLadakh,
	RegionLakshadweep, RegionMadhyaPradesh, RegionMaharashtra, RegionManipur,
	RegionMeghalaya, RegionMizoram, RegionNagaland, RegionOdisha, RegionPuducherry,
	RegionPunjab, RegionRajasthan, RegionSikkim, RegionTamilNadu, RegionTelangana,
	RegionTripura, RegionUttarPradesh, RegionUttarakhand, RegionWestBengal,
}

var regions = func() map[Region]struct{} {
	m := make(map[Region]struct{}, len(Regions))
	for _, r := range Regions {
		m[r] = struct{}{}
	}
	return m
}()

// ParseRegion validates an external region code.
func ParseRegion(s string) (Region, error) {
	r := Region(s)
	if _, ok := regions[r]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "region is not a recognised state or union territory code")
	}
	return r, nil
}

// Role separates citizen accounts from platform administrators.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// SchemeStatus is the catalog lifecycle state of a scheme. Only APPROVED
// schemes participate in matching and public browsing.
type SchemeStatus string

const (
	SchemeStatusDraft    SchemeStatus = "DRAFT"
	SchemeStatusApproved SchemeStatus = "APPROVED"
	SchemeStatusArchived SchemeStatus = "ARCHIVED"
)

var schemeStatuses = map[SchemeStatus]struct{}{
	SchemeStatusDraft: {}, SchemeStatusApproved: {}, SchemeStatusArchived: {},
}

// ParseSchemeStatus validates an external scheme status value.
func ParseSchemeStatus(s string) (SchemeStatus, error) {
	st := SchemeStatus(s)
	if _, ok := schemeStatuses[st]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "status must be one of DRAFT, APPROVED, ARCHIVED")
	}
	return st, nil
}

// SchemeLevel distinguishes central (pan-national) from state-level schemes.
type SchemeLevel string

const (
	SchemeLevelCentral SchemeLevel = "CENTRAL"
	SchemeLevelState   SchemeLevel = "STATE"
)

// ParseSchemeLevel validates an external scheme level value.
func ParseSchemeLevel(s string) (SchemeLevel, error) {
	l := SchemeLevel(s)
	if l != SchemeLevelCentral && l != SchemeLevelState {
		return "", dErrors.New(dErrors.CodeValidation, "level must be CENTRAL or STATE")
	}
	return l, nil
}
