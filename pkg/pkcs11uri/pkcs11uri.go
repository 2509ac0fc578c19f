// Package pkcs11uri handles the "pkcs11:k=v;k=v" URI form used to address
// key material inside a PKCS#11 token (RFC 7512, the subset produced by the
// Greengrass provisioning tooling).
package pkcs11uri

import (
	"fmt"
	"strings"
)

const Scheme = "pkcs11"

// Attributes is the parsed attribute map of a PKCS#11 URI.
type Attributes map[string]string

// Object returns the token object label, the attribute naming a key or
// certificate inside the token.
func (a Attributes) Object() string {
	return a["object"]
}

// IsURI reports whether a key or certificate reference addresses a token
// object rather than a file path.
func IsURI(ref string) bool {
	return strings.HasPrefix(ref, Scheme+":")
}

// Parse splits a PKCS#11 URI into its attribute map. The scheme prefix is
// required; every attribute must be a k=v pair.
func Parse(uri string) (Attributes, error) {
	scheme, opts, found := strings.Cut(uri, ":")
	if !found || scheme != Scheme {
		return nil, fmt.Errorf("not a pkcs11 URI: %q", uri)
	}

	attrs := make(Attributes)
	for _, opt := range strings.Split(opts, ";") {
		k, v, found := strings.Cut(opt, "=")
		if !found {
			return nil, fmt.Errorf("malformed pkcs11 URI attribute %q", opt)
		}
		attrs[k] = v
	}
	return attrs, nil
}

// TrimScheme strips the scheme prefix. Applying it twice is the same as
// applying it once.
func TrimScheme(uri string) string {
	return strings.TrimPrefix(uri, Scheme+":")
}

// WithPinValue returns the URI with a pin-value attribute spliced in, for
// consumers that need the user pin inline. A URI that already carries a
// pin-value is returned unchanged.
func WithPinValue(uri, pin string) (string, error) {
	attrs, err := Parse(uri)
	if err != nil {
		return "", err
	}
	if _, ok := attrs["pin-value"]; ok {
		return uri, nil
	}
	return uri + ";pin-value=" + pin, nil
}
