package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/Tiago21221/brasa-e-lenha/internal/platform/errors"
)

const (
	// SignatureHeader carries the webhook signature.
	SignatureHeader = "Payment-Signature"
	// DefaultTolerance bounds how old a signed timestamp may be.
	DefaultTolerance = 5 * time.Minute
)

// Verifier checks webhook signatures. An empty Secret accepts any
// well-formed header without checking the digest.
type Verifier struct {
	Secret    []byte
	Tolerance time.Duration
	Now       func() time.Time
}

// NewVerifier builds a verifier for secret with the default tolerance.
func NewVerifier(secret string) *Verifier {
	return &Verifier{Secret: []byte(strings.TrimSpace(secret)), Tolerance: DefaultTolerance}
}

// Enabled reports whether digests are checked.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.Secret) > 0
}

// Verify validates header against body.
func (v *Verifier) Verify(header string, body []byte) error {
	header = strings.TrimSpace(header)
	if header == "" {
		return apperrors.New(apperrors.CodePaymentSignatureMissing, "missing payment signature")
	}
	if !v.Enabled() {
		return nil
	}

	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}
	tolerance := v.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	now := time.Now()
	if v.Now != nil {
		now = v.Now()
	}
	signedAt := time.Unix(timestamp, 0)
	if age := now.Sub(signedAt); age > tolerance || age < -tolerance {
		return apperrors.New(apperrors.CodePaymentSignatureInvalid, "payment signature timestamp outside tolerance")
	}

	expected := computeSignature(v.Secret, timestamp, body)
	for _, candidate := range signatures {
		decoded, err := hex.DecodeString(candidate)
		if err != nil {
			continue
		}
		if subtle.ConstantTimeCompare(expected, decoded) == 1 {
			return nil
		}
	}
	// Never echo the expected digest.
	return apperrors.New(apperrors.CodePaymentSignatureInvalid, "payment signature mismatch")
}

// Sign returns a header value for body signed at t. Used by test clients and
// the local checkout flow.
func Sign(secret []byte, t time.Time, body []byte) string {
	timestamp := t.Unix()
	return "t=" + strconv.FormatInt(timestamp, 10) + ",v1=" + hex.EncodeToString(computeSignature(secret, timestamp, body))
}

func computeSignature(secret []byte, timestamp int64, body []byte) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var (
		timestamp  int64
		haveTime   bool
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, nil, apperrors.New(apperrors.CodePaymentSignatureInvalid, "payment signature timestamp is invalid")
			}
			timestamp = parsed
			haveTime = true
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if !haveTime || len(signatures) == 0 {
		return 0, nil, apperrors.New(apperrors.CodePaymentSignatureInvalid, "payment signature header is malformed")
	}
	return timestamp, signatures, nil
}
