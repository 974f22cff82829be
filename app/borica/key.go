package borica

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrNoKeyConfigured = errors.New("no signing key configured")

var (
	pemBeginRe = regexp.MustCompile(`-----BEGIN [A-Z ]+-----`)
	pemEndRe   = regexp.MustCompile(`-----END [A-Z ]+-----`)
)

// NormalizePrivateKey repairs the PEM formats that survive deployment
// tooling: literal \n escapes from shell exports, keys flattened onto a
// single line by secret managers, and base64-wrapped PEM with no visible
// header. Returns "" when no key is configured.
func NormalizePrivateKey(raw string) string {
	return normalizePEM(raw)
}

func normalizePEM(raw string) string {
	key := raw
	if strings.TrimSpace(key) == "" {
		return ""
	}

	key = strings.ReplaceAll(key, `\n`, "\n")

	if strings.Contains(key, "-----BEGIN") && !strings.Contains(key, "\n") {
		key = reflowSingleLinePEM(key)
	}

	if !strings.Contains(key, "-----BEGIN") {
		if decoded, ok := decodeBase64Lenient(key); ok && strings.Contains(decoded, "-----BEGIN") {
			key = decoded
		}
	}

	return strings.TrimSpace(key)
}

// reflowSingleLinePEM restores line structure: header and footer on their
// own lines, base64 body re-wrapped to 64 columns.
func reflowSingleLinePEM(key string) string {
	begin := pemBeginRe.FindString(key)
	end := pemEndRe.FindString(key)
	if begin == "" || end == "" {
		return key
	}

	body := strings.Replace(key, begin, "", 1)
	body = strings.Replace(body, end, "", 1)
	body = strings.Join(strings.Fields(body), "")

	var b strings.Builder
	b.WriteString(begin)
	b.WriteByte('\n')
	for len(body) > 0 {
		n := 64
		if len(body) < n {
			n = len(body)
		}
		b.WriteString(body[:n])
		b.WriteByte('\n')
		body = body[n:]
	}
	b.WriteString(end)
	return b.String()
}

func decodeBase64Lenient(value string) (string, bool) {
	value = strings.Join(strings.Fields(value), "")
	if decoded, err := base64.StdEncoding.DecodeString(value); err == nil {
		return string(decoded), true
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(value); err == nil {
		return string(decoded), true
	}
	return "", false
}

// keyAttempt is one strategy for turning a PEM block into a usable RSA key.
// Attempts run in order; each failure stays inspectable in the final error.
type keyAttempt struct {
	name string
	load func(block *pem.Block, password string) (*rsa.PrivateKey, error)
}

var keyAttempts = []keyAttempt{
	{name: "decrypt-with-passphrase", load: loadEncryptedKey},
	{name: "unencrypted-pkcs8", load: loadPKCS8Key},
	{name: "unencrypted-pkcs1", load: loadPKCS1Key},
}

// LoadSigningKey normalizes the configured key text and tries each
// construction strategy in order. The key is reconstructed per call so a
// configuration change needs no restart.
func LoadSigningKey(rawKey, password string) (*rsa.PrivateKey, error) {
	pemText := normalizePEM(rawKey)
	if pemText == "" {
		return nil, ErrNoKeyConfigured
	}

	block, _ := pem.Decode([]byte(pemText))
	if block == nil {
		return nil, errors.New("cannot load signing key: no PEM block found")
	}

	var lastErr error
	for _, attempt := range keyAttempts {
		key, err := attempt.load(block, password)
		if err == nil {
			return key, nil
		}
		lastErr = fmt.Errorf("%s: %w", attempt.name, err)
	}
	return nil, fmt.Errorf("cannot load signing key: %w", lastErr)
}

func loadEncryptedKey(block *pem.Block, password string) (*rsa.PrivateKey, error) {
	//nolint:staticcheck // legacy encrypted PEM is what the gateway issues
	if !x509.IsEncryptedPEMBlock(block) {
		return nil, errors.New("pem block is not encrypted")
	}
	if password == "" {
		return nil, errors.New("key is encrypted but no passphrase is configured")
	}
	//nolint:staticcheck
	der, err := x509.DecryptPEMBlock(block, []byte(password))
	if err != nil {
		return nil, err
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	return parsePKCS8RSA(der)
}

func loadPKCS8Key(block *pem.Block, _ string) (*rsa.PrivateKey, error) {
	return parsePKCS8RSA(block.Bytes)
}

func loadPKCS1Key(block *pem.Block, _ string) (*rsa.PrivateKey, error) {
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}

func parsePKCS8RSA(der []byte) (*rsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported key type %T, gateway requires RSA", parsed)
	}
	return key, nil
}

// keyFormat classifies the normalized key text for diagnostics.
func keyFormat(pemText string) string {
	switch {
	case pemText == "":
		return "empty"
	case strings.Contains(pemText, "ENCRYPTED PRIVATE KEY"):
		return "encrypted-pkcs8"
	case strings.Contains(pemText, "RSA PRIVATE KEY"):
		return "rsa-pem"
	case strings.Contains(pemText, "PRIVATE KEY"):
		return "pkcs8"
	default:
		return "unknown"
	}
}
