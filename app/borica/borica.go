package borica

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
)

// Config carries the merchant-side gateway credentials. The private key may
// be PEM text or base64-of-PEM, with any of the mangled forms
// NormalizePrivateKey repairs.
type Config struct {
	GatewayURL         string
	MerchantID         string
	TerminalID         string
	PrivateKey         string
	PrivateKeyPassword string
	GatewayCertificate string
	MerchantName       string
	MerchantGMT        string
	Country            string
	Language           string
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// IsConfigured reports whether a real gateway round trip is possible.
// Callers fall back to simulation mode when it is not.
func (c *Client) IsConfigured() bool {
	return c.cfg.MerchantID != "" &&
		c.cfg.TerminalID != "" &&
		normalizePEM(c.cfg.PrivateKey) != ""
}

// SignMACMessage signs the canonical message with SHA-256 and the key's
// RSA PKCS#1 v1.5 scheme, returning the upper-cased hex signature.
func SignMACMessage(key *rsa.PrivateKey, message string) (string, error) {
	digest := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA256, digest[:])
	if err != nil {
		return "", fmt.Errorf("sign mac message: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(signature)), nil
}

// VerifyResponseMAC checks the gateway's P_SIGN over the response field set
// against its public certificate.
func VerifyResponseMAC(fields map[string]string, signatureHex string, cert *x509.Certificate) error {
	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return errors.New("gateway certificate does not carry an RSA public key")
	}
	signature, err := hex.DecodeString(strings.TrimSpace(signatureHex))
	if err != nil {
		return fmt.Errorf("malformed response signature: %w", err)
	}
	digest := sha256.Sum256([]byte(MACMessage(fields, responseFieldOrder)))
	if err := rsa.VerifyPKCS1v15(pub, crypto.SHA256, digest[:], signature); err != nil {
		return fmt.Errorf("response signature verification failed: %w", err)
	}
	return nil
}

// LoadGatewayCertificate parses the configured gateway certificate, which
// tolerates the same PEM mangling as the private key.
func LoadGatewayCertificate(raw string) (*x509.Certificate, error) {
	pemText := normalizePEM(raw)
	if pemText == "" {
		return nil, errors.New("no gateway certificate configured")
	}
	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, errors.New("gateway certificate: no PEM block found")
	}
	return x509.ParseCertificate(block.Bytes)
}

// VerifyCallback validates the gateway's response signature when a gateway
// certificate is configured. Without one (test environments) verification
// is skipped and the result code alone decides the outcome.
func (c *Client) VerifyCallback(result *CallbackResult) error {
	if strings.TrimSpace(c.cfg.GatewayCertificate) == "" {
		return nil
	}
	cert, err := LoadGatewayCertificate(c.cfg.GatewayCertificate)
	if err != nil {
		return err
	}
	if result.Signature == "" {
		return errors.New("callback carries no P_SIGN")
	}
	return VerifyResponseMAC(result.Fields, result.Signature, cert)
}

// Diagnosis reports key and credential health without exposing material.
type Diagnosis struct {
	MIDSet      bool   `json:"midSet"`
	TIDSet      bool   `json:"tidSet"`
	KeySet      bool   `json:"keySet"`
	KeyFormat   string `json:"keyFormat"`
	PasswordSet bool   `json:"passwordSet"`
	SignTest    string `json:"signTest"`
}

func (c *Client) Diagnose() Diagnosis {
	pemText := normalizePEM(c.cfg.PrivateKey)
	d := Diagnosis{
		MIDSet:      c.cfg.MerchantID != "",
		TIDSet:      c.cfg.TerminalID != "",
		KeySet:      pemText != "",
		KeyFormat:   keyFormat(pemText),
		PasswordSet: c.cfg.PrivateKeyPassword != "",
		SignTest:    "not-tested",
	}
	if pemText == "" {
		return d
	}

	key, err := LoadSigningKey(c.cfg.PrivateKey, c.cfg.PrivateKeyPassword)
	if err != nil {
		d.SignTest = err.Error()
		return d
	}
	if _, err := SignMACMessage(key, "test"); err != nil {
		d.SignTest = err.Error()
		return d
	}
	d.SignTest = "ok"
	return d
}
