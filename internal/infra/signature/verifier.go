package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"booking-core/internal/pkg/clock"
	"booking-core/internal/pkg/config"
	"booking-core/internal/pkg/errs"
)

const schemeV1 = "v1"

var (
	ErrMissingSignature   = errs.Define(errs.ErrInvalidSignature, "signature header is missing")
	ErrMalformedSignature = errs.Define(errs.ErrInvalidSignature, "signature header is malformed")
	ErrSignatureMismatch  = errs.Define(errs.ErrInvalidSignature, "signature does not match payload")
	ErrTimestampOutOfSync = errs.Define(errs.ErrInvalidSignature, "signature timestamp outside tolerance")
	ErrUnknownTenant      = errs.Define(errs.ErrInvalidSignature, "no webhook secret for tenant")
)

// Verifier checks provider signatures of the form
// "t=<unix seconds>,v1=<hex hmac-sha256(secret, "<t>.<raw body>")>".
// Several v1 entries may be present while a secret is being rotated.
type Verifier struct {
	secrets       map[string]string
	defaultSecret string
	tolerance     time.Duration
	clock         clock.Clock
}

func NewVerifier(cfg config.WebhookConfig, clk clock.Clock) *Verifier {
	secrets := make(map[string]string, len(cfg.Secrets))
	for tenant, secret := range cfg.Secrets {
		secrets[strings.TrimSpace(tenant)] = strings.TrimSpace(secret)
	}
	return &Verifier{
		secrets:       secrets,
		defaultSecret: cfg.DefaultSecret,
		tolerance:     cfg.SignatureTolerance,
		clock:         clk,
	}
}

func (v *Verifier) secretFor(tenantID string) (string, bool) {
	if s, ok := v.secrets[tenantID]; ok && s != "" {
		return s, true
	}
	if v.defaultSecret != "" {
		return v.defaultSecret, true
	}
	return "", false
}

// Verify rejects headers whose timestamp is more than the tolerance away from
// now, including a byte-identical copy of an old delivery. Providers sign each
// delivery attempt afresh, so redeliveries carry a current timestamp and reach
// the event-id dedup. A zero tolerance turns the timestamp check off.
func (v *Verifier) Verify(tenantID string, payload []byte, header string) error {
	secret, ok := v.secretFor(tenantID)
	if !ok {
		return ErrUnknownTenant
	}
	if strings.TrimSpace(header) == "" {
		return ErrMissingSignature
	}

	ts, sigs, err := parseHeader(header)
	if err != nil {
		return err
	}

	if v.tolerance > 0 {
		skew := v.clock.Now().Sub(time.Unix(ts, 0))
		if skew < 0 {
			skew = -skew
		}
		if skew > v.tolerance {
			return ErrTimestampOutOfSync
		}
	}

	expected := computeMAC(secret, ts, payload)
	for _, sig := range sigs {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrSignatureMismatch
}

// Sign produces a header accepted by Verify. Used by tests and tooling.
func Sign(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	return "t=" + strconv.FormatInt(ts, 10) + "," + schemeV1 + "=" + hex.EncodeToString(computeMAC(secret, ts, payload))
}

func computeMAC(secret string, ts int64, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte{'.'})
	mac.Write(payload)
	return mac.Sum(nil)
}

func parseHeader(header string) (int64, [][]byte, error) {
	var (
		ts    int64
		found bool
		sigs  [][]byte
	)
	for _, part := range strings.Split(header, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			return 0, nil, ErrMalformedSignature
		}
		switch k {
		case "t":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return 0, nil, ErrMalformedSignature
			}
			ts, found = n, true
		case schemeV1:
			sig, err := hex.DecodeString(val)
			if err != nil {
				return 0, nil, ErrMalformedSignature
			}
			sigs = append(sigs, sig)
		}
	}
	if !found || len(sigs) == 0 {
		return 0, nil, ErrMalformedSignature
	}
	return ts, sigs, nil
}
