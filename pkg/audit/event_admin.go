package audit

import "fmt"

// AdminCredentialEvent represents an admin credential lifecycle audit event
type AdminCredentialEvent struct {
	Operation    string // "init", "rotate"
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AdminCredentialEvent) MessageID() string {
	return "admin-credential"
}

func (e AdminCredentialEvent) Message() string {
	var action string
	switch e.Operation {
	case "init":
		action = "created the admin credential"
	case "rotate":
		action = "rotated the admin credential"
	default:
		action = e.Operation
	}
	if e.Success {
		return action
	}
	msg := "failed to " + verbFor(e.Operation) + " the admin credential"
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func verbFor(operation string) string {
	switch operation {
	case "init":
		return "create"
	case "rotate":
		return "rotate"
	}
	return operation
}

func (e AdminCredentialEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e AdminCredentialEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AdminCredentialEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	sd := map[string]map[string]string{
		SDIDSubject: {
			"credential": "admin",
		},
		SDIDAction: {
			"operation": fmt.Sprintf("admin-%s", e.Operation),
			"result":    result,
		},
	}
	// The CLI is the only caller of init and rotate and has no client IP.
	if e.ClientIP != "" {
		sd[SDIDClient] = map[string]string{"ip": e.ClientIP}
	}
	return sd
}
