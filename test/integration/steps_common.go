package integration

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/certmint/certmint/pkg/server/store"
	gormstore "github.com/certmint/certmint/pkg/server/store/gorm"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte

	adminToken         string
	previousAdminToken string

	addresses    map[string]string // alias -> generated address
	apiKeys      map[string]string // alias -> API key
	accessTokens map[string]string // alias -> access token
	issuerTokens map[string]string // credential name -> issuer token
	certIDs      map[string]string // certificate name -> id
	eventCounts  map[string]int64  // kind -> count noted before an action
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:           tc,
		addresses:    make(map[string]string),
		apiKeys:      make(map[string]string),
		accessTokens: make(map[string]string),
		issuerTokens: make(map[string]string),
		certIDs:      make(map[string]string),
		eventCounts:  make(map[string]int64),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^a CertMint server is running$`, s.aCertMintServerIsRunning)
	sc.Step(`^the admin credential is initialized$`, s.theAdminCredentialIsInitialized)
	sc.Step(`^an address "([^"]*)" is registered$`, s.anAddressIsRegistered)
	sc.Step(`^"([^"]*)" is authenticated$`, s.isAuthenticated)

	// Authentication steps
	sc.Step(`^I authenticate as "([^"]*)" with the correct API key$`, s.iAuthenticateWithCorrectAPIKey)
	sc.Step(`^I authenticate as "([^"]*)" with API key "([^"]*)"$`, s.iAuthenticateWithAPIKey)
	sc.Step(`^I should receive a valid access token$`, s.iShouldReceiveAValidAccessToken)

	// Admin credential steps
	sc.Step(`^initializing the admin credential again fails$`, s.initializingAdminAgainFails)
	sc.Step(`^the admin credential is rotated$`, s.theAdminCredentialIsRotated)
	sc.Step(`^granting an issuer credential with the previous admin token fails$`, s.grantingWithPreviousAdminTokenFails)

	// Issuer steps
	sc.Step(`^an issuer credential "([^"]*)" is granted to "([^"]*)"$`, s.anIssuerCredentialIsGrantedTo)
	sc.Step(`^I request an issuer credential for "([^"]*)" with admin token "([^"]*)"$`, s.iRequestIssuerCredentialWithAdminToken)

	// Certificate steps
	sc.Step(`^"([^"]*)" issues a certificate "([^"]*)" to "([^"]*)" with credential "([^"]*)"$`, s.issuesACertificate)
	sc.Step(`^"([^"]*)" attempts to issue a certificate to "([^"]*)" with credential "([^"]*)"$`, s.attemptsToIssueACertificate)
	sc.Step(`^"([^"]*)" batch issues certificates "([^"]*)" to "([^"]*)" with credential "([^"]*)"$`, s.batchIssuesCertificates)
	sc.Step(`^the batch certificates share a single issue date$`, s.theBatchCertificatesShareASingleIssueDate)
	sc.Step(`^the certificate "([^"]*)" records issuer "([^"]*)" and recipient "([^"]*)"$`, s.theCertificateRecordsIssuerAndRecipient)
	sc.Step(`^verifying certificate "([^"]*)" against "([^"]*)" returns (true|false)$`, s.verifyingCertificateReturns)
	sc.Step(`^"([^"]*)" destroys certificate "([^"]*)"$`, s.destroysCertificate)
	sc.Step(`^"([^"]*)" attempts to destroy certificate "([^"]*)"$`, s.destroysCertificate)
	sc.Step(`^the certificate "([^"]*)" should no longer exist$`, s.theCertificateShouldNoLongerExist)
	sc.Step(`^the certificate "([^"]*)" should still exist$`, s.theCertificateShouldStillExist)

	// Event steps
	sc.Step(`^I note the number of "([^"]*)" events$`, s.iNoteTheNumberOfEvents)
	sc.Step(`^the number of "([^"]*)" events should be unchanged$`, s.theNumberOfEventsShouldBeUnchanged)
	sc.Step(`^the number of "([^"]*)" events should have increased by (\d+)$`, s.theNumberOfEventsShouldHaveIncreasedBy)
	sc.Step(`^the event log should include a "([^"]*)" event for certificate "([^"]*)"$`, s.theEventLogShouldIncludeEventForCertificate)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response body should be "([^"]*)"$`, s.theResponseBodyShouldBe)
}

// Background steps

func (s *StepsContext) aCertMintServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) theAdminCredentialIsInitialized() error {
	adminStore := gormstore.NewAdminStore(s.tc.DB)

	cred, err := adminStore.Init()
	if errors.Is(err, store.ErrAlreadyInitialized) {
		// A previous scenario created it; rotate to learn a fresh token
		cred, err = adminStore.Rotate()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize admin credential: %w", err)
	}

	s.adminToken = cred.PlainToken
	return nil
}

func (s *StepsContext) anAddressIsRegistered(alias string) error {
	req, err := http.NewRequest("POST", s.tc.ServerURL+"/addresses", nil)
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to register address: %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	var resp map[string]string
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse registration response: %w", err)
	}

	s.addresses[alias] = resp["address"]
	s.apiKeys[alias] = resp["api_key"]
	return nil
}

func (s *StepsContext) isAuthenticated(alias string) error {
	if err := s.iAuthenticateWithCorrectAPIKey(alias); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to authenticate %q: %d: %s", alias, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

// Authentication steps

func (s *StepsContext) iAuthenticateWithCorrectAPIKey(alias string) error {
	return s.iAuthenticateWithAPIKey(alias, s.apiKeys[alias])
}

func (s *StepsContext) iAuthenticateWithAPIKey(alias, apiKey string) error {
	address, ok := s.addresses[alias]
	if !ok {
		return fmt.Errorf("no address registered for %q", alias)
	}

	reqURL := fmt.Sprintf("%s/authn/%s/authenticate", s.tc.ServerURL, address)
	req, err := http.NewRequest("POST", reqURL, strings.NewReader(apiKey))
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	// If successful, keep the token
	if s.response.StatusCode == http.StatusOK {
		s.accessTokens[alias] = string(s.responseBody)
	}

	return nil
}

func (s *StepsContext) iShouldReceiveAValidAccessToken() error {
	parts := strings.Split(strings.TrimSpace(string(s.responseBody)), ".")
	if len(parts) != 3 {
		return fmt.Errorf("expected a JWT with 3 segments, got %d: %q", len(parts), string(s.responseBody))
	}
	for _, part := range parts {
		if part == "" {
			return fmt.Errorf("access token has an empty segment: %q", string(s.responseBody))
		}
	}
	return nil
}

// Admin credential steps

func (s *StepsContext) initializingAdminAgainFails() error {
	_, err := gormstore.NewAdminStore(s.tc.DB).Init()
	if !errors.Is(err, store.ErrAlreadyInitialized) {
		return fmt.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}
	return nil
}

func (s *StepsContext) theAdminCredentialIsRotated() error {
	cred, err := gormstore.NewAdminStore(s.tc.DB).Rotate()
	if err != nil {
		return fmt.Errorf("failed to rotate admin credential: %w", err)
	}
	s.previousAdminToken = s.adminToken
	s.adminToken = cred.PlainToken
	return nil
}

func (s *StepsContext) grantingWithPreviousAdminTokenFails() error {
	if err := s.grantIssuer("stale", "stale", s.previousAdminToken); err != nil {
		return err
	}
	return s.theResponseStatusShouldBe(http.StatusUnauthorized)
}

// Issuer steps

func (s *StepsContext) anIssuerCredentialIsGrantedTo(credName, alias string) error {
	if err := s.grantIssuer(credName, alias, s.adminToken); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var resp map[string]interface{}
		if err := json.Unmarshal(s.responseBody, &resp); err != nil {
			return fmt.Errorf("failed to parse issuer response: %w", err)
		}
		token, _ := resp["token"].(string)
		if token == "" {
			return fmt.Errorf("issuer response did not include a token: %s", string(s.responseBody))
		}
		s.issuerTokens[credName] = token
	}

	return nil
}

func (s *StepsContext) iRequestIssuerCredentialWithAdminToken(alias, adminToken string) error {
	return s.grantIssuer("unnamed", alias, adminToken)
}

func (s *StepsContext) grantIssuer(credName, alias, adminToken string) error {
	address, ok := s.addresses[alias]
	if !ok {
		// Scenarios probing failure paths may name an unregistered alias
		address = alias
	}

	body, err := json.Marshal(map[string]string{
		"name":    credName,
		"address": address,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL+"/issuers", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", `Token token="`+adminToken+`"`)
	req.Header.Set("Content-Type", "application/json")

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Certificate steps

func (s *StepsContext) issuesACertificate(caller, certName, recipient, credName string) error {
	if err := s.issueCertificate(caller, certName, recipient, credName); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusCreated {
		return fmt.Errorf("failed to issue certificate %q: %d: %s", certName, s.response.StatusCode, string(s.responseBody))
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse certificate response: %w", err)
	}
	id, _ := resp["id"].(string)
	s.certIDs[certName] = id
	return nil
}

func (s *StepsContext) attemptsToIssueACertificate(caller, recipient, credName string) error {
	return s.issueCertificate(caller, "attempted", recipient, credName)
}

func (s *StepsContext) issueCertificate(caller, certName, recipient, credName string) error {
	body, err := json.Marshal(map[string]string{
		"issuer_token": s.issuerTokens[credName],
		"name":         certName,
		"recipient":    s.addresses[recipient],
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL+"/certificates", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessTokens[caller])
	req.Header.Set("Content-Type", "application/json")

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) batchIssuesCertificates(caller, certNames, recipient, credName string) error {
	names := strings.Split(certNames, ",")
	certs := make([]map[string]string, 0, len(names))
	for _, name := range names {
		certs = append(certs, map[string]string{
			"name":      strings.TrimSpace(name),
			"recipient": s.addresses[recipient],
		})
	}

	body, err := json.Marshal(map[string]interface{}{
		"issuer_token": s.issuerTokens[credName],
		"certificates": certs,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL+"/certificates/batch", strings.NewReader(string(body)))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessTokens[caller])
	req.Header.Set("Content-Type", "application/json")

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusCreated {
		var resp []map[string]interface{}
		if err := json.Unmarshal(s.responseBody, &resp); err != nil {
			return fmt.Errorf("failed to parse batch response: %w", err)
		}
		for _, cert := range resp {
			name, _ := cert["name"].(string)
			id, _ := cert["id"].(string)
			s.certIDs[name] = id
		}
	}

	return nil
}

func (s *StepsContext) theBatchCertificatesShareASingleIssueDate() error {
	var resp []map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse batch response: %w", err)
	}
	if len(resp) == 0 {
		return fmt.Errorf("batch response is empty")
	}

	first, _ := resp[0]["issue_date"].(string)
	if first == "" {
		return fmt.Errorf("first certificate has no issue_date: %s", string(s.responseBody))
	}
	for _, cert := range resp {
		issueDate, _ := cert["issue_date"].(string)
		if issueDate != first {
			return fmt.Errorf("issue dates differ: %q vs %q", first, issueDate)
		}
	}
	return nil
}

func (s *StepsContext) theCertificateRecordsIssuerAndRecipient(certName, issuerAlias, recipientAlias string) error {
	if err := s.getCertificate(certName); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch certificate %q: %d", certName, s.response.StatusCode)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse certificate: %w", err)
	}

	if issuer, _ := resp["issuer"].(string); issuer != s.addresses[issuerAlias] {
		return fmt.Errorf("expected issuer %q, got %q", s.addresses[issuerAlias], issuer)
	}
	if recipient, _ := resp["recipient"].(string); recipient != s.addresses[recipientAlias] {
		return fmt.Errorf("expected recipient %q, got %q", s.addresses[recipientAlias], recipient)
	}
	return nil
}

func (s *StepsContext) verifyingCertificateReturns(certName, alias, expected string) error {
	reqURL := fmt.Sprintf("%s/certificates/%s/verify?issuer=%s", s.tc.ServerURL, s.certIDs[certName], s.addresses[alias])
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	var resp map[string]bool
	if err := json.Unmarshal(s.responseBody, &resp); err != nil {
		return fmt.Errorf("failed to parse verify response: %w", err)
	}

	want := expected == "true"
	if resp["verified"] != want {
		return fmt.Errorf("expected verified=%v, got %v", want, resp["verified"])
	}
	return nil
}

func (s *StepsContext) destroysCertificate(caller, certName string) error {
	reqURL := fmt.Sprintf("%s/certificates/%s", s.tc.ServerURL, s.certIDs[certName])
	req, err := http.NewRequest("DELETE", reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.accessTokens[caller])

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

func (s *StepsContext) theCertificateShouldNoLongerExist(certName string) error {
	if err := s.getCertificate(certName); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusNotFound {
		return fmt.Errorf("expected 404 for destroyed certificate %q, got %d", certName, s.response.StatusCode)
	}
	return nil
}

func (s *StepsContext) theCertificateShouldStillExist(certName string) error {
	if err := s.getCertificate(certName); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("expected 200 for certificate %q, got %d", certName, s.response.StatusCode)
	}
	return nil
}

func (s *StepsContext) getCertificate(certName string) error {
	reqURL := fmt.Sprintf("%s/certificates/%s", s.tc.ServerURL, s.certIDs[certName])
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return err
	}

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}

// Event steps

func (s *StepsContext) countEvents(kind string) (int64, error) {
	var count int64
	err := s.tc.DB.Raw(`SELECT COUNT(*) FROM events WHERE kind = ?`, kind).Scan(&count).Error
	return count, err
}

func (s *StepsContext) iNoteTheNumberOfEvents(kind string) error {
	count, err := s.countEvents(kind)
	if err != nil {
		return err
	}
	s.eventCounts[kind] = count
	return nil
}

func (s *StepsContext) theNumberOfEventsShouldBeUnchanged(kind string) error {
	count, err := s.countEvents(kind)
	if err != nil {
		return err
	}
	if count != s.eventCounts[kind] {
		return fmt.Errorf("expected %d %q events, got %d", s.eventCounts[kind], kind, count)
	}
	return nil
}

func (s *StepsContext) theNumberOfEventsShouldHaveIncreasedBy(kind string, delta int) error {
	count, err := s.countEvents(kind)
	if err != nil {
		return err
	}
	expected := s.eventCounts[kind] + int64(delta)
	if count != expected {
		return fmt.Errorf("expected %d %q events, got %d", expected, kind, count)
	}
	return nil
}

func (s *StepsContext) theEventLogShouldIncludeEventForCertificate(kind, certName string) error {
	reqURL := fmt.Sprintf("%s/events?kind=%s", s.tc.ServerURL, kind)
	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", `Token token="`+s.adminToken+`"`)

	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	if err != nil {
		return err
	}

	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to list events: %d: %s", s.response.StatusCode, string(s.responseBody))
	}

	var events []struct {
		Kind    string `json:"kind"`
		Payload struct {
			CertificateID string `json:"certificate_id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(s.responseBody, &events); err != nil {
		return fmt.Errorf("failed to parse events: %w", err)
	}

	for _, event := range events {
		if event.Kind == kind && event.Payload.CertificateID == s.certIDs[certName] {
			return nil
		}
	}
	return fmt.Errorf("no %q event found for certificate %q (%s)", kind, certName, s.certIDs[certName])
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldBe(expected string) error {
	actual := strings.TrimSpace(string(s.responseBody))
	if actual != expected {
		return fmt.Errorf("expected body %q, got %q", expected, actual)
	}
	return nil
}
