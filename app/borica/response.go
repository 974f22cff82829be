package borica

import "net/url"

// approvedActionCode is the gateway's result code for an approved
// transaction.
const approvedActionCode = "0"

// CallbackResult is the parsed, read-only view of the gateway's callback.
// Fields keeps the raw set (including P_SIGN) so a verifier can be layered
// on without re-parsing.
type CallbackResult struct {
	OrderID       string `json:"orderId"`
	ActionCode    string `json:"actionCode"`
	ResponseCode  string `json:"responseCode"`
	StatusMessage string `json:"statusMessage"`
	ApprovalCode  string `json:"approvalCode"`
	RRN           string `json:"rrn"`
	IntRef        string `json:"intRef"`
	Terminal      string `json:"terminal"`
	TRType        string `json:"trtype"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	IsSuccessful  bool   `json:"isSuccessful"`

	Signature string            `json:"-"`
	Fields    map[string]string `json:"-"`
}

// ParsePaymentResponse decodes the gateway callback fields. The gateway
// POSTs a form body for most deployments but redirects via GET query
// parameters for some, so both arrive here as url.Values.
func ParsePaymentResponse(values url.Values) *CallbackResult {
	fields := make(map[string]string, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}

	actionCode := fields["ACTION"]
	if actionCode == "" {
		actionCode = fields["ACTION_CODE"]
	}

	return &CallbackResult{
		OrderID:       fields["ORDER"],
		ActionCode:    actionCode,
		ResponseCode:  fields["RC"],
		StatusMessage: fields["STATUSMSG"],
		ApprovalCode:  fields["APPROVAL"],
		RRN:           fields["RRN"],
		IntRef:        fields["INT_REF"],
		Terminal:      fields["TERMINAL"],
		TRType:        fields["TRTYPE"],
		Amount:        fields["AMOUNT"],
		Currency:      fields["CURRENCY"],
		IsSuccessful:  actionCode == approvedActionCode,
		Signature:     fields["P_SIGN"],
		Fields:        fields,
	}
}
