package awsiot

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/ThalesIgnite/crypto11"
	"github.com/otaclient/iot-logging-server/internal/greengrass"
	"github.com/otaclient/iot-logging-server/pkg/pkcs11uri"
)

const pemCertificatePrefix = "-----BEGIN CERTIFICATE-----"

// TLSClientConfig assembles the mTLS client configuration for the credential
// endpoint: the device certificate and private key on one side, the
// configured CA bundle for server verification on the other.
func TLSClientConfig(id *greengrass.Identity) (*tls.Config, error) {
	cert, err := deviceCertificate(id)
	if err != nil {
		return nil, fmt.Errorf("loading device key material: %w", err)
	}

	rootCAs, err := caPool(id.CAPath)
	if err != nil {
		return nil, fmt.Errorf("loading CA bundle: %w", err)
	}

	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{cert},
		RootCAs:      rootCAs,
	}, nil
}

func caPool(caPath string) (*x509.CertPool, error) {
	ca, err := os.ReadFile(caPath)
	if err != nil {
		return nil, err
	}

	rootCAs, err := x509.SystemCertPool()
	if err != nil {
		return nil, err
	}
	if rootCAs == nil {
		rootCAs = x509.NewCertPool()
	}
	if !rootCAs.AppendCertsFromPEM(ca) {
		return nil, fmt.Errorf("no certificate parsed from %s", caPath)
	}
	return rootCAs, nil
}

func deviceCertificate(id *greengrass.Identity) (tls.Certificate, error) {
	if pkcs11uri.IsURI(id.PrivateKeyRef) {
		return tokenCertificate(id)
	}
	return fileCertificate(id)
}

// fileCertificate loads plain-file key material. Token-provisioned
// certificates sometimes land on disk in DER form, so the certificate file
// is converted to PEM when the PEM marker is absent.
func fileCertificate(id *greengrass.Identity) (tls.Certificate, error) {
	certPEM, err := readCertificatePEM(id.CertificateRef)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, err := os.ReadFile(id.PrivateKeyRef)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// tokenCertificate builds the TLS certificate from a PKCS#11 token: the
// private key never leaves the token and is used through a crypto.Signer.
// The certificate comes either from a file or from the token itself.
func tokenCertificate(id *greengrass.Identity) (tls.Certificate, error) {
	p11 := id.PKCS11
	if p11 == nil {
		return tls.Certificate{}, fmt.Errorf("pkcs11 key reference without pkcs11 configuration")
	}

	keyAttrs, err := pkcs11uri.Parse(id.PrivateKeyRef)
	if err != nil {
		return tls.Certificate{}, err
	}
	keyLabel := keyAttrs.Object()
	if keyLabel == "" {
		return tls.Certificate{}, fmt.Errorf("pkcs11 key URI %q has no object label", id.PrivateKeyRef)
	}

	slot := p11.SlotID
	ctx, err := crypto11.Configure(&crypto11.Config{
		Path:       p11.LibraryPath,
		SlotNumber: &slot,
		Pin:        p11.UserPin,
	})
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("configuring pkcs11 module %s: %w", p11.LibraryPath, err)
	}

	signer, err := ctx.FindKeyPair(nil, []byte(keyLabel))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("finding key %q in token: %w", keyLabel, err)
	}
	if signer == nil {
		return tls.Certificate{}, fmt.Errorf("key %q not found in token", keyLabel)
	}

	var leaf *x509.Certificate
	if pkcs11uri.IsURI(id.CertificateRef) {
		certAttrs, err := pkcs11uri.Parse(id.CertificateRef)
		if err != nil {
			return tls.Certificate{}, err
		}
		leaf, err = ctx.FindCertificate(nil, []byte(certAttrs.Object()), nil)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("finding certificate %q in token: %w", certAttrs.Object(), err)
		}
		if leaf == nil {
			return tls.Certificate{}, fmt.Errorf("certificate %q not found in token", certAttrs.Object())
		}
	} else {
		certPEM, err := readCertificatePEM(id.CertificateRef)
		if err != nil {
			return tls.Certificate{}, err
		}
		block, _ := pem.Decode(certPEM)
		if block == nil {
			return tls.Certificate{}, fmt.Errorf("no PEM block in %s", id.CertificateRef)
		}
		leaf, err = x509.ParseCertificate(block.Bytes)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("parsing certificate %s: %w", id.CertificateRef, err)
		}
	}

	return tls.Certificate{
		Certificate: [][]byte{leaf.Raw},
		PrivateKey:  signer,
		Leaf:        leaf,
	}, nil
}

// readCertificatePEM reads a certificate file and normalizes DER content to
// PEM, detected by the absence of the PEM certificate marker.
func readCertificatePEM(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if containsPEMMarker(raw) {
		return raw, nil
	}
	if _, err := x509.ParseCertificate(raw); err != nil {
		return nil, fmt.Errorf("certificate %s is neither PEM nor DER: %w", path, err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: raw}), nil
}

func containsPEMMarker(raw []byte) bool {
	return len(raw) >= len(pemCertificatePrefix) && string(raw[:len(pemCertificatePrefix)]) == pemCertificatePrefix
}
