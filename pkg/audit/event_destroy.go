package audit

import "fmt"

// DestroyEvent represents a certificate destruction audit event
type DestroyEvent struct {
	Address       string
	CertificateID string
	ClientIP      string
	Success       bool
	ErrorMessage  string
}

func (e DestroyEvent) MessageID() string {
	return "destroy"
}

func (e DestroyEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s destroyed certificate %s", e.Address, e.CertificateID)
	}
	msg := fmt.Sprintf("%s tried to destroy certificate %s", e.Address, e.CertificateID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e DestroyEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e DestroyEvent) Facility() int {
	return FacilityAuthPriv
}

func (e DestroyEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Address,
		},
		SDIDSubject: {
			"certificate": e.CertificateID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "destroy",
			"result":    result,
		},
	}
}
