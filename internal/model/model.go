package model

import "strings"

// Case is the active case as the client knows it. The backend keeps its own copy keyed by session.
type Case struct {
	CauseNumber string `json:"causeNumber"`
	Description string `json:"description"`
	ID          string `json:"id"`
}

func (c Case) IsSet() bool { return strings.TrimSpace(c.ID) != "" }

type DiscoveryRequest struct {
	ID            string `json:"id"`
	RequestNumber int    `json:"requestNumber"`
	RequestText   string `json:"requestText,omitempty"`
	ResponseText  string `json:"responseText,omitempty"`
}

type DiscoveryDocument struct {
	ID        string `json:"id"`
	CleanedUp bool   `json:"cleanedUp"`
}

// TemplateKind selects between the objection and response template families.
// Both families share the same remote surface under different path prefixes.
type TemplateKind string

const (
	TemplateObjection TemplateKind = "objection"
	TemplateResponse  TemplateKind = "response"
)

// TemplateEntry is one row of a template list or text lookup.
// For list lookups Text holds the template's short text.
type TemplateEntry struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Attorney is the backend's attorney record, passed through untouched.
type Attorney map[string]any

const (
	CategoryVehicle     = "PROPERTY:VEHICLE"
	CategoryRealEstate  = "PROPERTY:REAL"
	CategoryBankAccount = "PROPERTY:BANK_ACCOUNT"
)

// KnownCategories lists the item categories the backend is known to accept, sorted.
func KnownCategories() []string {
	return []string{CategoryBankAccount, CategoryRealEstate, CategoryVehicle}
}

type ItemOp string

const (
	ItemOpAdd ItemOp = "add"
	ItemOpDel ItemOp = "del"
)

func (op ItemOp) Valid() bool {
	switch ItemOp(strings.ToLower(string(op))) {
	case ItemOpAdd, ItemOpDel:
		return true
	}
	return false
}

// CaseItem is a public-data record attached to a case, addressed by its (db, ed, rec) triple.
type CaseItem struct {
	DB          string `json:"db"`
	ED          string `json:"ed"`
	Rec         string `json:"rec"`
	CaseID      string `json:"caseId"`
	Category    string `json:"category"`
	Op          ItemOp `json:"op,omitempty"`
	Description string `json:"description,omitempty"`
}

func (it CaseItem) Key() string { return ItemKey(it.DB, it.ED, it.Rec) }

// ItemKey is the backend's storage key for a public-data record.
func ItemKey(db, ed, rec string) string {
	return "PUBLICDATA:" + db + "." + ed + "." + rec
}
