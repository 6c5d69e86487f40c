package cookie

import (
	"encoding/base64"
	"encoding/json"

	"github.com/tenantflow/coordinator/internal/types"
)

// legacyEnvelope is the pre-encryption cookie payload: base64 of a JSON
// object. Decoded for compatibility during the migration window, never
// written.
type legacyEnvelope struct {
	SessionID   string `json:"sessionId"`
	Fingerprint string `json:"fingerprint"`
}

func decodeLegacy(value string) (map[types.SCKey]string, bool) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, false
	}

	var env legacyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if _, ok := types.ValidSessionID(env.SessionID); !ok {
		return nil, false
	}

	return map[types.SCKey]string{
		types.SCSessionID:   env.SessionID,
		types.SCFingerprint: env.Fingerprint,
	}, true
}
