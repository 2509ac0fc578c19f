// Package awsiot mints short-lived AWS credentials from the IoT Core
// credential provider over a mutually authenticated TLS session. The device
// certificate and key come either from plain files or from a PKCS#11 token.
package awsiot

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/otaclient/iot-logging-server/internal/greengrass"
	"github.com/sirupsen/logrus"
)

const (
	// thingNameHeader carries the thing name the credential provider maps
	// to a role alias.
	thingNameHeader = "x-amzn-iot-thingname"

	// fetchTimeout bounds one credential fetch end to end.
	fetchTimeout = 10 * time.Second

	// expiryWindow re-mints credentials this long before they expire.
	expiryWindow = 5 * time.Minute

	credentialsSource = "IoTCredentialProvider"
)

// FetchError reports a failed credential fetch. For HTTP failures only the
// status code is recorded; the response body may carry sensitive data and
// never reaches the error text.
type FetchError struct {
	// StatusCode is the non-2xx HTTP status, or 0 for transport failures.
	StatusCode int

	err error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("credential fetch failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("credential fetch failed: %v", e.err)
}

func (e *FetchError) Unwrap() error { return e.err }

// RetryableError feeds the AWS SDK retryer: transport and server-side
// failures may be retried, client errors may not.
func (e *FetchError) RetryableError() bool {
	return e.StatusCode == 0 || e.StatusCode >= 500
}

// credentialsResponse is the wire shape of the credential provider response.
type credentialsResponse struct {
	Credentials struct {
		AccessKeyID     string `json:"accessKeyId"`
		SecretAccessKey string `json:"secretAccessKey"`
		SessionToken    string `json:"sessionToken"`
		Expiration      string `json:"expiration"`
	} `json:"credentials"`
}

// CredentialProvider implements aws.CredentialsProvider by fetching
// short-lived credentials from the IoT credential endpoint. Wrap it with
// NewCachedProvider so refreshes are cached and coalesced.
type CredentialProvider struct {
	refreshURL string
	thingName  string
	client     *http.Client
	log        logrus.FieldLogger
}

func NewCredentialProvider(id *greengrass.Identity, tlsConfig *tls.Config, log logrus.FieldLogger) *CredentialProvider {
	return &CredentialProvider{
		refreshURL: id.CredentialRefreshURL(),
		thingName:  id.ThingName,
		client: &http.Client{
			Timeout: fetchTimeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		},
		log: log,
	}
}

// NewCachedProvider wraps a provider in the SDK credentials cache: a fresh
// credential is served from memory, concurrent refreshes coalesce to one
// in-flight fetch, and re-minting starts an expiry window early.
func NewCachedProvider(provider aws.CredentialsProvider) *aws.CredentialsCache {
	return aws.NewCredentialsCache(provider, func(o *aws.CredentialsCacheOptions) {
		o.ExpiryWindow = expiryWindow
	})
}

// Retrieve performs one mTLS GET against the credential endpoint.
func (p *CredentialProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.refreshURL, nil)
	if err != nil {
		return aws.Credentials{}, &FetchError{err: err}
	}
	req.Header.Set(thingNameHeader, p.thingName)

	resp, err := p.client.Do(req)
	if err != nil {
		return aws.Credentials{}, &FetchError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return aws.Credentials{}, &FetchError{StatusCode: resp.StatusCode}
	}

	var parsed credentialsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return aws.Credentials{}, &FetchError{err: fmt.Errorf("decoding response: %w", err)}
	}

	creds := parsed.Credentials
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return aws.Credentials{}, &FetchError{err: fmt.Errorf("response carries no credentials")}
	}

	expires, err := time.Parse(time.RFC3339, creds.Expiration)
	if err != nil {
		return aws.Credentials{}, &FetchError{err: fmt.Errorf("parsing expiration: %w", err)}
	}

	p.log.Debugf("minted credentials for %s, valid until %s", p.thingName, expires.Format(time.RFC3339))
	return aws.Credentials{
		AccessKeyID:     creds.AccessKeyID,
		SecretAccessKey: creds.SecretAccessKey,
		SessionToken:    creds.SessionToken,
		CanExpire:       true,
		Expires:         expires,
		Source:          credentialsSource,
	}, nil
}
