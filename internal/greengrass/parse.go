package greengrass

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Load parses the Greengrass configuration, preferring v2 when its file
// exists, and returns the normalized device identity. Any parse failure,
// missing key, unknown profile or naming-scheme mismatch is returned as a
// single wrapped error; the caller treats it as fatal.
func Load(v2Path, v1Path string, profiles ProfileTable) (*Identity, error) {
	if _, err := os.Stat(v2Path); err == nil {
		id, err := loadV2(v2Path, profiles)
		if err != nil {
			return nil, fmt.Errorf("parsing greengrass v2 config %s: %w", v2Path, err)
		}
		return id, nil
	}

	id, err := loadV1(v1Path, profiles)
	if err != nil {
		return nil, fmt.Errorf("parsing greengrass v1 config %s: %w", v1Path, err)
	}
	return id, nil
}

// thingArn is the split form of arn:partition:service:region:account-id:resource-id.
type thingArn struct {
	partition  string
	service    string
	region     string
	accountID  string
	resourceID string
}

func parseThingArn(raw string) (thingArn, error) {
	parts := strings.SplitN(raw, ":", 6)
	if len(parts) != 6 || parts[0] != "arn" {
		return thingArn{}, fmt.Errorf("malformed thing ARN %q", raw)
	}
	return thingArn{
		partition:  parts[1],
		service:    parts[2],
		region:     parts[3],
		accountID:  parts[4],
		resourceID: parts[5],
	}, nil
}

// v1Config is the subset of the Greengrass v1 config.json we consume.
type v1Config struct {
	CoreThing struct {
		ThingArn string `json:"thingArn"`
	} `json:"coreThing"`
	Crypto struct {
		CAPath     string `json:"caPath"`
		Principals struct {
			IoTCertificate struct {
				PrivateKeyPath  string `json:"privateKeyPath"`
				CertificatePath string `json:"certificatePath"`
			} `json:"IoTCertificate"`
		} `json:"principals"`
	} `json:"crypto"`
}

// trimFileScheme drops the file:// prefix v1 configs use on key material
// paths.
func trimFileScheme(path string) string {
	return strings.TrimPrefix(path, "file://")
}

// loadV1 parses a Greengrass v1 config.json. The account id and region come
// from the thing ARN; the profile table contributes only the credential
// endpoint. PKCS#11 is not supported for v1 deployments.
func loadV1(path string, profiles ProfileTable) (*Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg v1Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.CoreThing.ThingArn == "" {
		return nil, fmt.Errorf("coreThing.thingArn is missing")
	}

	arn, err := parseThingArn(cfg.CoreThing.ThingArn)
	if err != nil {
		return nil, err
	}
	thingName := strings.TrimPrefix(arn.resourceID, "thing/")

	profileName, err := profileFromThingName(arn.resourceID)
	if err != nil {
		return nil, err
	}
	profile, err := profiles.Get(profileName)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		AccountID:          arn.accountID,
		CAPath:             trimFileScheme(cfg.Crypto.CAPath),
		PrivateKeyRef:      trimFileScheme(cfg.Crypto.Principals.IoTCertificate.PrivateKeyPath),
		CertificateRef:     trimFileScheme(cfg.Crypto.Principals.IoTCertificate.CertificatePath),
		ThingName:          thingName,
		Profile:            profile.ProfileName,
		Region:             arn.region,
		CredentialEndpoint: profile.CredentialEndpoint,
	}
	if err := id.validate(); err != nil {
		return nil, err
	}
	return id, nil
}

// v2Config is the subset of the Greengrass v2 config.yaml we consume.
type v2Config struct {
	System struct {
		ThingName           string `json:"thingName"`
		RootCAPath          string `json:"rootCaPath"`
		PrivateKeyPath      string `json:"privateKeyPath"`
		CertificateFilePath string `json:"certificateFilePath"`
	} `json:"system"`
	Services struct {
		Nucleus struct {
			Configuration struct {
				AWSRegion       string `json:"awsRegion"`
				IotCredEndpoint string `json:"iotCredEndpoint"`
			} `json:"configuration"`
		} `json:"aws.greengrass.Nucleus"`
		Pkcs11Provider *struct {
			Configuration struct {
				Library string      `json:"library"`
				UserPin string      `json:"userPin"`
				Slot    json.Number `json:"slot"`
			} `json:"configuration"`
		} `json:"aws.greengrass.crypto.Pkcs11Provider"`
	} `json:"services"`
}

// loadV2 parses a Greengrass v2 config.yaml. The v2 dialect carries no
// account id, so it always comes from the profile table; the credential
// endpoint from the config wins over the table when present.
func loadV2(path string, profiles ProfileTable) (*Identity, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg v2Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	if cfg.System.ThingName == "" {
		return nil, fmt.Errorf("system.thingName is missing")
	}

	profileName, err := profileFromThingName(cfg.System.ThingName)
	if err != nil {
		return nil, err
	}
	profile, err := profiles.Get(profileName)
	if err != nil {
		return nil, err
	}

	credEndpoint := cfg.Services.Nucleus.Configuration.IotCredEndpoint
	if credEndpoint == "" {
		credEndpoint = profile.CredentialEndpoint
	}

	var pkcs11 *PKCS11Config
	if p := cfg.Services.Pkcs11Provider; p != nil {
		slot, err := p.Configuration.Slot.Int64()
		if err != nil {
			return nil, fmt.Errorf("pkcs11 slot %q is not numeric: %w", p.Configuration.Slot, err)
		}
		pkcs11 = &PKCS11Config{
			LibraryPath: p.Configuration.Library,
			SlotID:      int(slot),
			UserPin:     p.Configuration.UserPin,
		}
	}

	id := &Identity{
		AccountID:          string(profile.AccountID),
		CAPath:             cfg.System.RootCAPath,
		PrivateKeyRef:      cfg.System.PrivateKeyPath,
		CertificateRef:     cfg.System.CertificateFilePath,
		ThingName:          cfg.System.ThingName,
		Profile:            profile.ProfileName,
		Region:             cfg.Services.Nucleus.Configuration.AWSRegion,
		CredentialEndpoint: credEndpoint,
		PKCS11:             pkcs11,
	}
	if err := id.validate(); err != nil {
		return nil, err
	}
	return id, nil
}
