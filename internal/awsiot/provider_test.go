package awsiot

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/otaclient/iot-logging-server/internal/greengrass"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPKI is a throwaway CA with one server and one client certificate
// signed by it.
type testPKI struct {
	caPEM      []byte
	serverCert tls.Certificate
	clientPEM  []byte
	clientKey  []byte
	clientDER  []byte
}

func newTestPKI(t *testing.T) *testPKI {
	t.Helper()

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "test root ca"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	require.NoError(t, err)
	caCert, err := x509.ParseCertificate(caDER)
	require.NoError(t, err)

	issue := func(template *x509.Certificate) (tls.Certificate, []byte, []byte, []byte) {
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		require.NoError(t, err)
		der, err := x509.CreateCertificate(rand.Reader, template, caCert, &key.PublicKey, caKey)
		require.NoError(t, err)
		certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
		keyDER, err := x509.MarshalECPrivateKey(key)
		require.NoError(t, err)
		keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})
		pair, err := tls.X509KeyPair(certPEM, keyPEM)
		require.NoError(t, err)
		return pair, certPEM, keyPEM, der
	}

	serverCert, _, _, _ := issue(&x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "credential endpoint"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	})

	_, clientPEM, clientKey, clientDER := issue(&x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: "dev-edge-vehicle-one-Core"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	})

	return &testPKI{
		caPEM:      pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: caDER}),
		serverCert: serverCert,
		clientPEM:  clientPEM,
		clientKey:  clientKey,
		clientDER:  clientDER,
	}
}

// writeIdentity materializes the client-side key material as files and
// returns an identity pointing at them.
func (p *testPKI) writeIdentity(t *testing.T) *greengrass.Identity {
	t.Helper()
	dir := t.TempDir()
	caPath := filepath.Join(dir, "root.ca.pem")
	certPath := filepath.Join(dir, "device.pem.crt")
	keyPath := filepath.Join(dir, "private.pem.key")
	require.NoError(t, os.WriteFile(caPath, p.caPEM, 0o600))
	require.NoError(t, os.WriteFile(certPath, p.clientPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, p.clientKey, 0o600))

	return &greengrass.Identity{
		AccountID:      "012345678901",
		CAPath:         caPath,
		PrivateKeyRef:  keyPath,
		CertificateRef: certPath,
		ThingName:      "dev-edge-vehicle-one-Core",
		Profile:        "dev",
		Region:         "ap-northeast-1",
	}
}

// startCredentialServer runs an mTLS endpoint answering with the given
// handler and returns an identity whose refresh URL points at it.
func startCredentialServer(t *testing.T, pki *testPKI, handler http.Handler) *greengrass.Identity {
	t.Helper()

	clientCAs := x509.NewCertPool()
	require.True(t, clientCAs.AppendCertsFromPEM(pki.caPEM))

	ts := httptest.NewUnstartedServer(handler)
	ts.TLS = &tls.Config{
		MinVersion:   tls.VersionTLS12,
		Certificates: []tls.Certificate{pki.serverCert},
		ClientCAs:    clientCAs,
		ClientAuth:   tls.RequireAndVerifyClientCert,
	}
	ts.StartTLS()
	t.Cleanup(ts.Close)

	id := pki.writeIdentity(t)
	id.CredentialEndpoint = ts.Listener.Addr().String()
	return id
}

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	return log
}

func TestRetrieve(t *testing.T) {
	pki := newTestPKI(t)
	expiration := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	var gotThingName atomic.Value
	id := startCredentialServer(t, pki, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotThingName.Store(r.Header.Get("x-amzn-iot-thingname"))
		assert.Equal(t, "/role-aliases/dev-autoware-adapter-credentials-iot-secrets-access-role-alias/credentials", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"credentials":{` +
			`"accessKeyId":"AKIDEXAMPLE",` +
			`"secretAccessKey":"SECRET",` +
			`"sessionToken":"TOKEN",` +
			`"expiration":"` + expiration.Format(time.RFC3339) + `"}}`))
	}))

	tlsConfig, err := TLSClientConfig(id)
	require.NoError(t, err)
	provider := NewCredentialProvider(id, tlsConfig, testLogger())

	creds, err := provider.Retrieve(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "dev-edge-vehicle-one-Core", gotThingName.Load())
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal(t, "SECRET", creds.SecretAccessKey)
	assert.Equal(t, "TOKEN", creds.SessionToken)
	assert.True(t, creds.CanExpire)
	assert.True(t, creds.Expires.Equal(expiration))
}

func TestRetrieve_StatusErrorHidesBody(t *testing.T) {
	pki := newTestPKI(t)
	id := startCredentialServer(t, pki, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"role alias sensitive-detail does not exist"}`))
	}))

	tlsConfig, err := TLSClientConfig(id)
	require.NoError(t, err)
	provider := NewCredentialProvider(id, tlsConfig, testLogger())

	_, err = provider.Retrieve(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.False(t, fetchErr.RetryableError())
	assert.NotContains(t, err.Error(), "sensitive-detail")
}

func TestRetrieve_ServerErrorIsRetryable(t *testing.T) {
	pki := newTestPKI(t)
	id := startCredentialServer(t, pki, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	tlsConfig, err := TLSClientConfig(id)
	require.NoError(t, err)
	provider := NewCredentialProvider(id, tlsConfig, testLogger())

	_, err = provider.Retrieve(context.Background())
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.RetryableError())
}

func TestRetrieve_TransportErrorIsRetryable(t *testing.T) {
	pki := newTestPKI(t)
	id := pki.writeIdentity(t)
	// nothing listens here
	id.CredentialEndpoint = "127.0.0.1:1"

	tlsConfig, err := TLSClientConfig(id)
	require.NoError(t, err)
	provider := NewCredentialProvider(id, tlsConfig, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err = provider.Retrieve(ctx)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.StatusCode)
	assert.True(t, fetchErr.RetryableError())
}

func TestRetrieve_RejectsUntrustedClient(t *testing.T) {
	serverPKI := newTestPKI(t)
	otherPKI := newTestPKI(t)

	id := startCredentialServer(t, serverPKI, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// swap in key material the server's CA never signed, but keep
	// trusting the server's CA so the failure is client-auth only
	otherID := otherPKI.writeIdentity(t)
	otherID.CAPath = id.CAPath
	otherID.CredentialEndpoint = id.CredentialEndpoint

	tlsConfig, err := TLSClientConfig(otherID)
	require.NoError(t, err)
	provider := NewCredentialProvider(otherID, tlsConfig, testLogger())

	_, err = provider.Retrieve(context.Background())
	require.Error(t, err)
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestCachedProvider_Coalesces(t *testing.T) {
	var fetches atomic.Int32
	provider := &fakeProvider{
		fetch: func(ctx context.Context) {
			fetches.Add(1)
			time.Sleep(50 * time.Millisecond)
		},
	}

	cache := NewCachedProvider(provider)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.Retrieve(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// concurrent callers share one in-flight fetch
	assert.Equal(t, int32(1), fetches.Load())

	// a fresh credential is served from memory
	_, err := cache.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), fetches.Load())
}

type fakeProvider struct {
	fetch func(ctx context.Context)
}

func (f *fakeProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	f.fetch(ctx)
	return aws.Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "SECRET",
		CanExpire:       true,
		Expires:         time.Now().Add(time.Hour),
	}, nil
}

func TestReadCertificatePEM_ConvertsDER(t *testing.T) {
	pki := newTestPKI(t)
	derPath := filepath.Join(t.TempDir(), "device.der")
	require.NoError(t, os.WriteFile(derPath, pki.clientDER, 0o600))

	pemBytes, err := readCertificatePEM(derPath)
	require.NoError(t, err)
	assert.Contains(t, string(pemBytes), "-----BEGIN CERTIFICATE-----")

	// a PEM input passes through untouched
	pemPath := filepath.Join(t.TempDir(), "device.pem")
	require.NoError(t, os.WriteFile(pemPath, pki.clientPEM, 0o600))
	pemBytes, err = readCertificatePEM(pemPath)
	require.NoError(t, err)
	assert.Equal(t, pki.clientPEM, pemBytes)
}
