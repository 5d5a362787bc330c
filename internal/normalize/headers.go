package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Canonical field names.
const (
	FieldTimestamp      = "timestamp"
	FieldEmail          = "email address"
	FieldFullName       = "full name"
	FieldPhone          = "phone number"
	FieldOriginCity     = "origin city"
	FieldGuests         = "number of guests"
	FieldNotesRequests  = "notes/requests"
	FieldPets           = "pets"
	FieldTransportation = "transportation assistance"
	FieldKosher         = "kosher"
	FieldAccessible     = "accessible"
	FieldPetsDetails    = "pets details"
	FieldAccessDetails  = "accessible details"
	FieldKosherDetails  = "kosher details"
	FieldNotes          = "notes"
	FieldTreatment      = "who is in charge?"
	FieldHost           = "who is hosting"
	FieldOther          = "other"
	FieldRequestStatus  = "request status"
	FieldUnknown        = "unknown"
	FieldMamad          = "mamad"
)

// needHeaders maps the need form's column titles to canonical field names.
var needHeaders = map[string]string{
	"חותמת זמן":    FieldTimestamp,
	"כתובת אימייל": FieldEmail,
	"שם מלא":       FieldFullName,
	"טלפון  (אנא ציינו רק ספרות, ללא מקף ורווח)": FieldPhone,
	"מאיזה יישוב אתם מגיעים ?  ":                 FieldOriginCity,
	"מה מספר אורחים שצריכים מקום? ":              FieldGuests,
	"הערות/בקשות":              FieldNotesRequests,
	"האם יש בעח שבאים איתכם ?": FieldPets,
	"האם זקוקים לעזרה בהסעות?": FieldTransportation,
	"האם שומרי כשרות?":         FieldKosher,
	"האם זקוקים לבית מונגש ?":  FieldAccessible,
	"פירוט על בעח":             FieldPetsDetails,
	"פירוט לגבי בית מונגש":     FieldAccessDetails,
	"פירוט לגבי כשרות":         FieldKosherDetails,
	"הערות":                    FieldNotes,
	"בטיפול של מי?":            FieldTreatment,
	"אצל מי מתארחים":           FieldHost,
	"שונות":                    FieldOther,
	"מצב הבקשה":                FieldRequestStatus,
	"Unnamed: 19":              FieldUnknown,
	"האם חובה ממד  ?(שימו לב-  בית עם מקלט במקום ממד מזרז משמעותית זמני טיפול) ": FieldMamad,
}

// HeaderTable resolves raw header text to canonical names. Lookups ignore
// quote characters, Unicode composition and runs of whitespace.
type HeaderTable map[string]string

// NewHeaderTable builds a table from raw header -> canonical pairs.
func NewHeaderTable(raw map[string]string) HeaderTable {
	t := make(HeaderTable, len(raw))
	for header, field := range raw {
		t[headerKey(header)] = field
	}
	return t
}

// NeedHeaders is the table for the need-house form responses sheet.
func NeedHeaders() HeaderTable {
	return NewHeaderTable(needHeaders)
}

// Canonical returns the canonical name for a header, or the cleaned header
// itself when it is not in the table.
func (t HeaderTable) Canonical(header string) string {
	key := headerKey(header)
	if field, ok := t[key]; ok {
		return field
	}
	return key
}

func headerKey(header string) string {
	h := norm.NFC.String(header)
	h = strings.ReplaceAll(h, `"`, "")
	return strings.Join(strings.Fields(h), " ")
}
