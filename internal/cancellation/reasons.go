package cancellation

// Reason is one entry of the static cancellation-reason catalog. Reason codes
// are informational only and never change the fee computation.
type Reason struct {
	Code     string `json:"code"`
	Label    string `json:"label"`
	Category string `json:"category"`
}

var customerReasons = []Reason{
	{Code: "scheduling", Label: "Scheduling conflict", Category: "scheduling"},
	{Code: "pricing", Label: "Found a better price", Category: "pricing"},
	{Code: "changed_mind", Label: "Changed my mind", Category: "preference"},
	{Code: "emergency", Label: "Personal emergency", Category: "emergency"},
	{Code: "user_error", Label: "Booked by mistake", Category: "mistake"},
	{Code: "other", Label: "Other", Category: "other"},
}

var businessReasons = []Reason{
	{Code: "scheduling", Label: "Staff unavailable at this time", Category: "scheduling"},
	{Code: "salon_issue", Label: "Salon issue (equipment, premises)", Category: "operations"},
	{Code: "trust", Label: "Customer trust or safety concern", Category: "trust"},
	{Code: "emergency", Label: "Emergency closure", Category: "emergency"},
	{Code: "external", Label: "External circumstances (weather, power)", Category: "external"},
	{Code: "other", Label: "Other", Category: "other"},
}

// ReasonsFor returns the catalog for a requester type. Unknown types fall
// back to the customer catalog.
func ReasonsFor(reasonType string) []Reason {
	if reasonType == "business" {
		return businessReasons
	}
	return customerReasons
}

// IsValidReason checks a reason code against the actor's catalog.
func IsValidReason(code string, actor Actor) bool {
	catalog := customerReasons
	if actor == ActorBusiness {
		catalog = businessReasons
	}
	if actor == ActorSystem {
		// System cancellations may use any known code.
		for _, r := range append(customerReasons, businessReasons...) {
			if r.Code == code {
				return true
			}
		}
		return false
	}
	for _, r := range catalog {
		if r.Code == code {
			return true
		}
	}
	return false
}
