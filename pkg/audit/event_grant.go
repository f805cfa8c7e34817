package audit

import "fmt"

// GrantIssuerEvent represents an issuer credential grant audit event
type GrantIssuerEvent struct {
	IssuerID      string
	IssuerName    string
	IssuerAddress string
	ClientIP      string
	Success       bool
	ErrorMessage  string
}

func (e GrantIssuerEvent) MessageID() string {
	return "grant-issuer"
}

func (e GrantIssuerEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("granted issuer credential %s (%s) to %s", e.IssuerID, e.IssuerName, e.IssuerAddress)
	}
	msg := fmt.Sprintf("failed to grant issuer credential to %s", e.IssuerAddress)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e GrantIssuerEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e GrantIssuerEvent) Facility() int {
	return FacilityAuthPriv
}

func (e GrantIssuerEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	subject := map[string]string{
		"issuer": e.IssuerAddress,
	}
	if e.IssuerID != "" {
		subject["credential"] = e.IssuerID
	}
	if e.IssuerName != "" {
		subject["name"] = e.IssuerName
	}
	return map[string]map[string]string{
		SDIDSubject: subject,
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "grant-issuer",
			"result":    result,
		},
	}
}
