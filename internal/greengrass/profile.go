package greengrass

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"sigs.k8s.io/yaml"
)

var accountIDPattern = regexp.MustCompile(`^\d{12}$`)

// accountID accepts both the quoted and unquoted spelling of the 12-digit
// account id; YAML authors routinely drop the quotes.
type accountID string

func (a *accountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = accountID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("account_id must be a string or number: %w", err)
	}
	*a = accountID(n.String())
	return nil
}

// Profile is one entry of the AWS profile table, mapping a fleet profile
// name to the account and credential endpoint serving it.
type Profile struct {
	ProfileName        string    `json:"profile_name"`
	AccountID          accountID `json:"account_id"`
	CredentialEndpoint string    `json:"credential_endpoint"`
}

// ProfileTable is the full profile list loaded from aws_profile_info.yaml.
type ProfileTable []Profile

// LoadProfileTable reads and validates the profile table file.
func LoadProfileTable(path string) (ProfileTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile table: %w", err)
	}

	var table ProfileTable
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parsing profile table %s: %w", path, err)
	}
	for _, p := range table {
		if p.ProfileName == "" {
			return nil, fmt.Errorf("profile table %s: entry with empty profile_name", path)
		}
		if !accountIDPattern.MatchString(string(p.AccountID)) {
			return nil, fmt.Errorf("profile table %s: profile %q: account_id %q is not a 12-digit id", path, p.ProfileName, p.AccountID)
		}
		if p.CredentialEndpoint == "" {
			return nil, fmt.Errorf("profile table %s: profile %q: credential_endpoint is empty", path, p.ProfileName)
		}
	}
	return table, nil
}

// Get returns the entry for the named profile. An unknown profile is a
// configuration error.
func (t ProfileTable) Get(profileName string) (Profile, error) {
	for _, p := range t {
		if p.ProfileName == profileName {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q", profileName)
}
