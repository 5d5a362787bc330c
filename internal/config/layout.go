package config

import "housing_filters/internal/housing"

// Layout describes where things live in the two spreadsheets. Column
// indexes are 0-based.
type Layout struct {
	HeaderOffset int

	// Give (offers) sheet, where per-request filter views are created.
	GiveSheetID    int64
	GiveGuests     int
	GiveAvailable  int // negative disables the availability criterion
	GiveMamad      int
	GiveKosher     int
	GivePets       int
	GiveStatus     int
	GiveStartRow   int64
	ClosedStatuses []string

	// Need (requests) sheet, where caseworker and status views are created.
	NeedSheetID   int64
	NeedDate      int
	NeedTreatment int
	NeedStatus    int
	NeedStartRow  int64
	OpenStatuses  []string
}

// DefaultLayout matches the production form-response sheets.
var DefaultLayout = Layout{
	HeaderOffset:   2,
	GiveSheetID:    1511246512,
	GiveGuests:     4,
	GiveAvailable:  7,
	GiveMamad:      9,
	GiveKosher:     12,
	GivePets:       16,
	GiveStatus:     18,
	GiveStartRow:   1,
	ClosedStatuses: housing.ClosedStatuses,
	NeedSheetID:    0,
	NeedDate:       0,
	NeedTreatment:  15,
	NeedStatus:     18,
	NeedStartRow:   1,
	OpenStatuses:   housing.OpenStatuses,
}
