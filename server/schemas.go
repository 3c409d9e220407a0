package server

import (
	"time"

	"github.com/jrsteele09/go-hostel-server/auth"
	"github.com/jrsteele09/go-hostel-server/billing"
	"github.com/jrsteele09/go-hostel-server/requests"
)

var rfc3339Rule = auth.Rule{
	Message: "returnBy must be an RFC 3339 timestamp",
	Valid: func(v any) bool {
		_, err := time.Parse(time.RFC3339, v.(string))
		return err == nil
	},
}

var (
	latePassSchema = auth.Schema{Fields: []auth.Field{
		{Name: "reason", Normalize: auth.TrimSpace, Rules: auth.Length(3, 500,
			"Reason must be at least 3 characters", "Reason must be at most 500 characters")},
		{Name: "returnBy", Rules: []auth.Rule{rfc3339Rule}},
	}}

	maintenanceSchema = auth.Schema{Fields: []auth.Field{
		{Name: "category", Rules: []auth.Rule{
			auth.OneOf("Category must be one of: electrical, plumbing, furniture, cleaning, internet, other", requests.MaintenanceCategories...),
		}},
		{Name: "description", Normalize: auth.TrimSpace, Rules: auth.Length(10, 1000,
			"Description must be at least 10 characters", "Description must be at most 1000 characters")},
	}}

	foodOrderSchema = auth.Schema{Fields: []auth.Field{
		{Name: "items", Kind: auth.KindList, Rules: []auth.Rule{auth.Count(1, 20, "Order must contain between 1 and 20 items")}, Items: &auth.Schema{Fields: []auth.Field{
			{Name: "name", Rules: []auth.Rule{auth.NotBlank("Item name is required")}},
			{Name: "quantity", Kind: auth.KindNumber, Rules: []auth.Rule{
				auth.Integer("Quantity must be a whole number"),
				auth.Range(1, 20, "Quantity must be between 1 and 20"),
			}},
		}}},
	}}

	paymentSchema = auth.Schema{Fields: []auth.Field{
		{Name: "amount", Kind: auth.KindNumber, Rules: []auth.Rule{
			auth.Integer("Amount must be a whole number of minor units"),
			auth.Range(1, 100000000, "Amount must be between 1 and 100000000"),
		}},
	}}

	latePassDecisionSchema = auth.Schema{Fields: []auth.Field{
		{Name: "status", Rules: []auth.Rule{auth.OneOf("Status must be approved or rejected",
			string(requests.StatusApproved), string(requests.StatusRejected))}},
	}}

	maintenanceDecisionSchema = auth.Schema{Fields: []auth.Field{
		{Name: "status", Rules: []auth.Rule{auth.OneOf("Status must be approved, rejected or resolved",
			string(requests.StatusApproved), string(requests.StatusRejected), string(requests.StatusResolved))}},
	}}
)

type latePassRequest struct {
	Reason   string    `json:"reason"`
	ReturnBy time.Time `json:"returnBy"`
}

type maintenanceRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

type foodOrderRequest struct {
	Items []billing.ItemRequest `json:"items"`
}

type paymentRequest struct {
	Amount int64 `json:"amount"`
}

type decisionRequest struct {
	Status requests.Status `json:"status"`
}
