// Package greengrass loads the device identity from the Greengrass v1/v2
// on-disk configuration and derives the cloud-side names the log pipeline
// needs (role alias, log groups, credential refresh URL).
package greengrass

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/otaclient/iot-logging-server/pkg/pkcs11uri"
)

// thingNamePattern encodes the fleet naming scheme
// "thing/<profile>-edge-<id>-Core"; the profile segment selects the entry in
// the AWS profile table.
var thingNamePattern = regexp.MustCompile(`^(thing[/:])?(?P<profile>[\w-]+)-edge-(?P<id>[\w-]+)-.*$`)

// PKCS11Config mirrors the aws.greengrass.crypto.Pkcs11Provider service
// configuration of a Greengrass v2 deployment.
type PKCS11Config struct {
	// LibraryPath is the PKCS#11 module (.so) to load.
	LibraryPath string
	// SlotID is the numeric token slot.
	SlotID int
	// UserPin unlocks the token for private key operations.
	UserPin string
}

// Identity is the normalized device identity picked from a parsed Greengrass
// v1 or v2 configuration file. It is immutable after load; every consumer
// shares the same value.
type Identity struct {
	AccountID string
	CAPath    string
	// PrivateKeyRef and CertificateRef are each either a filesystem path
	// or a "pkcs11:" URI addressing an object inside the token.
	PrivateKeyRef  string
	CertificateRef string
	ThingName      string
	Profile        string
	Region         string
	// CredentialEndpoint is the IoT credential provider host.
	CredentialEndpoint string
	// PKCS11 is set when any key material lives inside a PKCS#11 token.
	PKCS11 *PKCS11Config
}

// validate enforces the invariant that token-resident key material requires
// a PKCS#11 block.
func (id *Identity) validate() error {
	if id.PKCS11 == nil {
		if pkcs11uri.IsURI(id.PrivateKeyRef) {
			return fmt.Errorf("private key %q is a pkcs11 URI but no pkcs11 configuration is present", id.PrivateKeyRef)
		}
		if pkcs11uri.IsURI(id.CertificateRef) {
			return fmt.Errorf("certificate %q is a pkcs11 URI but no pkcs11 configuration is present", id.CertificateRef)
		}
	}
	if _, err := profileFromThingName(id.ThingName); err != nil {
		return err
	}
	return nil
}

// RoleAlias is the IoT role alias the device certificate maps to for
// credential vending.
func (id *Identity) RoleAlias() string {
	return id.Profile + "-autoware-adapter-credentials-iot-secrets-access-role-alias"
}

// LogGroup is the CloudWatch log group receiving otaclient logs.
func (id *Identity) LogGroup() string {
	return fmt.Sprintf("/aws/greengrass/edge/%s/%s/%s-edge-otaclient", id.Region, id.AccountID, id.Profile)
}

// MetricsLogGroup is the paired group receiving otaclient metrics. It shares
// the log group naming scheme with a -metrics suffix.
func (id *Identity) MetricsLogGroup() string {
	return id.LogGroup() + "-metrics"
}

// CredentialRefreshURL is the IoT credential provider endpoint for this
// device's role alias. A trailing slash on the configured endpoint is
// tolerated.
func (id *Identity) CredentialRefreshURL() string {
	endpoint := strings.TrimRight(id.CredentialEndpoint, "/")
	return fmt.Sprintf("https://%s/role-aliases/%s/credentials", endpoint, id.RoleAlias())
}

// profileFromThingName extracts the profile segment from the thing name.
func profileFromThingName(thingName string) (string, error) {
	match := thingNamePattern.FindStringSubmatch(thingName)
	if match == nil {
		return "", fmt.Errorf("thing name %q does not follow the <profile>-edge-<id> naming scheme", thingName)
	}
	return match[thingNamePattern.SubexpIndex("profile")], nil
}
