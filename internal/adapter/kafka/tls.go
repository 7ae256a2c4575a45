package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"

	"github.com/twmb/franz-go/pkg/kgo"
)

// TLSConfig builds a mutual TLS client config from PEM files. All paths
// empty means plaintext and returns nil.
func TLSConfig(ca, cert, key string) (*tls.Config, error) {
	const op = "TLSConfig"

	if ca == "" && cert == "" && key == "" {
		return nil, nil
	}
	if ca == "" || cert == "" || key == "" {
		return nil, opErr(errors.New("ca, cert and key files are all required"), op)
	}

	caCert, err := os.ReadFile(ca)
	if err != nil {
		return nil, opErr(fmt.Errorf("failed to read CA certificate file: %w", err), op)
	}

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, opErr(errors.New("failed to parse CA certificate"), op)
	}

	clientCert, err := tls.LoadX509KeyPair(cert, key)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &tls.Config{
		RootCAs:      caCertPool,
		Certificates: []tls.Certificate{clientCert},
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// TLSOpts dials brokers over cfg. A nil cfg yields no options.
func TLSOpts(cfg *tls.Config) []kgo.Opt {
	if cfg == nil {
		return nil
	}
	return []kgo.Opt{kgo.DialTLSConfig(cfg)}
}
