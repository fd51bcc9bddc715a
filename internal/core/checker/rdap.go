package checker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/openrdap/rdap"

	"github.com/namevetter/namevetter/internal/core"
)

const (
	rdapSource      = "rdap"
	rdapErrorSource = "rdap_error"

	// DefaultRDAPBaseURL redirects each query to the authoritative registry.
	DefaultRDAPBaseURL = "https://rdap.org"
	DefaultRDAPTimeout = 8 * time.Second
)

// RDAPLookup is the registry step of the domain cascade.
type RDAPLookup struct {
	BaseURL string
	Client  *rdap.Client
	Timeout time.Duration
}

// NewRDAPLookup builds an RDAP step that sends requests through httpClient.
func NewRDAPLookup(baseURL string, httpClient *http.Client, userAgent string, timeout time.Duration) *RDAPLookup {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultRDAPBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &RDAPLookup{
		BaseURL: baseURL,
		Client:  &rdap.Client{HTTP: httpClient, UserAgent: userAgent},
		Timeout: timeout,
	}
}

// Method returns the provenance tag.
func (l *RDAPLookup) Method() string {
	return rdapSource
}

// Lookup queries RDAP for domain. 200 is Taken, 404 is Available, anything
// else is inconclusive.
func (l *RDAPLookup) Lookup(ctx context.Context, domain string) core.ProbeResult {
	serverURL, err := url.Parse(l.baseURL())
	if err != nil {
		return core.Failed(rdapErrorSource, err)
	}

	client := l.Client
	if client == nil {
		client = &rdap.Client{}
	}

	req := rdap.NewDomainRequest(domain).WithServer(serverURL)
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = DefaultRDAPTimeout
	}
	req.Timeout = timeout
	req = req.WithContext(ctx)

	resp, reqErr := client.Do(req)
	statusCode := responseStatus(resp)

	if reqErr != nil {
		if isNotFound(reqErr) || statusCode == http.StatusNotFound {
			return core.ProbeResult{Verdict: core.VerdictAvailable, Method: rdapSource}
		}
		if statusCode != 0 && statusCode != http.StatusOK {
			return core.ProbeResult{
				Verdict: core.VerdictUnknown,
				Method:  rdapSource,
				Details: map[string]string{"http_status": strconv.Itoa(statusCode)},
			}
		}
		return core.Failed(rdapErrorSource, reqErr)
	}

	if resp == nil {
		return core.Failed(rdapErrorSource, errEmptyResponse)
	}

	// Any successful answer means the registry knows the name. Servers that
	// omit objectClassName decode as another object type; details then come
	// from the raw body.
	result := core.ProbeResult{Verdict: core.VerdictTaken, Method: rdapSource}
	if obj, ok := resp.Object.(*rdap.Domain); ok {
		result.Details = domainDetails(obj)
	} else {
		result.Details = rawDetails(responseBody(resp))
	}
	return result
}

func (l *RDAPLookup) baseURL() string {
	if l != nil && strings.TrimSpace(l.BaseURL) != "" {
		return strings.TrimSpace(l.BaseURL)
	}
	return DefaultRDAPBaseURL
}

func responseStatus(resp *rdap.Response) int {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil || resp.HTTP[0].Response == nil {
		return 0
	}
	return resp.HTTP[0].Response.StatusCode
}

func responseBody(resp *rdap.Response) []byte {
	if resp == nil || len(resp.HTTP) == 0 || resp.HTTP[0] == nil {
		return nil
	}
	return resp.HTTP[0].Body
}

func isNotFound(err error) bool {
	var clientErr *rdap.ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	return clientErr.Type == rdap.ObjectDoesNotExist
}

// Extraction is best effort; missing pieces are simply left out.
func domainDetails(domain *rdap.Domain) map[string]string {
	details := map[string]string{}
	if registrar := findRegistrar(domain); registrar != "" {
		details["registrar"] = registrar
	}
	if registered := findEventDate(domain.Events, "registration"); registered != "" {
		details["registered"] = calendarDate(registered)
	}
	if expires := findEventDate(domain.Events, "expiration"); expires != "" {
		details["expires"] = calendarDate(expires)
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

type rawDomain struct {
	Entities []struct {
		Roles      []string `json:"roles"`
		VCardArray []any    `json:"vcardArray"`
	} `json:"entities"`
	Events []struct {
		Action string `json:"eventAction"`
		Date   string `json:"eventDate"`
	} `json:"events"`
}

// rawDetails reads registrar and dates from an RDAP body that did not decode
// as a domain object.
func rawDetails(body []byte) map[string]string {
	var doc rawDomain
	if len(body) == 0 || json.Unmarshal(body, &doc) != nil {
		return nil
	}

	details := map[string]string{}
	for _, entity := range doc.Entities {
		if !slices.Contains(entity.Roles, "registrar") {
			continue
		}
		if name := vcardName(entity.VCardArray); name != "" {
			details["registrar"] = name
			break
		}
	}
	for _, event := range doc.Events {
		switch event.Action {
		case "registration":
			if _, seen := details["registered"]; !seen {
				details["registered"] = calendarDate(event.Date)
			}
		case "expiration":
			if _, seen := details["expires"]; !seen {
				details["expires"] = calendarDate(event.Date)
			}
		}
	}
	if len(details) == 0 {
		return nil
	}
	return details
}

// vcardName returns the fn property of a jCard ["vcard", [[name, params, type, value]...]].
func vcardName(vcard []any) string {
	if len(vcard) < 2 {
		return ""
	}
	props, _ := vcard[1].([]any)
	for _, p := range props {
		prop, _ := p.([]any)
		if len(prop) < 4 {
			continue
		}
		if key, _ := prop[0].(string); key != "fn" {
			continue
		}
		if value, _ := prop[3].(string); strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func findRegistrar(domain *rdap.Domain) string {
	for _, entity := range domain.Entities {
		for _, role := range entity.Roles {
			if role == "registrar" && entity.VCard != nil {
				if name := strings.TrimSpace(entity.VCard.Name()); name != "" {
					return name
				}
			}
		}
	}
	return ""
}

func findEventDate(events []rdap.Event, action string) string {
	for _, event := range events {
		if event.Action == action {
			return event.Date
		}
	}
	return ""
}

func calendarDate(value string) string {
	value = strings.TrimSpace(value)
	if len(value) > 10 {
		return value[:10]
	}
	return value
}
