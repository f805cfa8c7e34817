package audit

import "fmt"

// IssueEvent represents a certificate issuance audit event
type IssueEvent struct {
	Issuer        string
	Recipient     string
	CertificateID string
	ClientIP      string
	Success       bool
	ErrorMessage  string
}

func (e IssueEvent) MessageID() string {
	return "issue"
}

func (e IssueEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s issued certificate %s to %s", e.Issuer, e.CertificateID, e.Recipient)
	}
	msg := fmt.Sprintf("%s tried to issue a certificate to %s", e.Issuer, e.Recipient)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e IssueEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e IssueEvent) Facility() int {
	return FacilityAuthPriv
}

func (e IssueEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	subject := map[string]string{
		"recipient": e.Recipient,
	}
	if e.CertificateID != "" {
		subject["certificate"] = e.CertificateID
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Issuer,
		},
		SDIDSubject: subject,
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "issue",
			"result":    result,
		},
	}
}

// BatchIssueEvent represents a batch certificate issuance audit event
type BatchIssueEvent struct {
	Issuer       string
	Count        int
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e BatchIssueEvent) MessageID() string {
	return "batch-issue"
}

func (e BatchIssueEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s issued a batch of %d certificates", e.Issuer, e.Count)
	}
	msg := fmt.Sprintf("%s tried to issue a batch of %d certificates", e.Issuer, e.Count)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e BatchIssueEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e BatchIssueEvent) Facility() int {
	return FacilityAuthPriv
}

func (e BatchIssueEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Issuer,
		},
		SDIDSubject: {
			"count": fmt.Sprintf("%d", e.Count),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDAction: {
			"operation": "batch-issue",
			"result":    result,
		},
	}
}
