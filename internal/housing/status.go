package housing

const (
	// NegativeToken is the literal "no" answer used throughout the forms.
	NegativeToken = "לא"
	// CoupleToken is written instead of a guest count for two people.
	CoupleToken = "זוג"
	CoupleCount = "2"

	StatusInTreatment = "בטיפול"
	StatusAssigned    = "שובץ"
	StatusIrrelevant  = "לא רלוונטי"
	StatusCancelled   = "בוטל"
	StatusHosted      = "התארחו"
)

// OpenStatuses are the request statuses still waiting for a match. An empty
// status is always open.
var OpenStatuses = []string{StatusInTreatment}

// ClosedStatuses are hidden from every generated filter view.
var ClosedStatuses = []string{StatusAssigned, StatusIrrelevant, StatusCancelled, StatusHosted}
