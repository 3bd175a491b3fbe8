package backup

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IdentityPolicy selects how the filename stem for a device is derived.
//
// WLED exposes the user-assigned device name at id.name in /cfg.json,
// which makes for friendlier filenames than the mDNS hostname but
// requires fetching the configuration before anything can be written.
type IdentityPolicy int

const (
	// IdentityConfigDerived reads the stem from the id.name field of
	// the device's /cfg.json and saves both the configuration and the
	// presets under it.
	IdentityConfigDerived IdentityPolicy = iota

	// IdentityHostnameDerived takes the stem from the advertised
	// hostname and saves the presets only.
	IdentityHostnameDerived
)

// String returns the CLI spelling of the policy.
func (p IdentityPolicy) String() string {
	switch p {
	case IdentityConfigDerived:
		return "config"
	case IdentityHostnameDerived:
		return "hostname"
	default:
		return fmt.Sprintf("IdentityPolicy(%d)", p)
	}
}

// ParseIdentityPolicy maps the CLI/config-file spelling to a policy.
func ParseIdentityPolicy(s string) (IdentityPolicy, error) {
	switch s {
	case "config":
		return IdentityConfigDerived, nil
	case "hostname":
		return IdentityHostnameDerived, nil
	default:
		return 0, fmt.Errorf("unknown identity policy %q (use \"config\" or \"hostname\")", s)
	}
}

// The four config-derived failure messages are user-visible and matched
// by scripts; their wording must stay stable.
const (
	msgMissingID     = "missing 'id' field in cfg.json"
	msgMissingName   = "missing 'name' field in cfg.json"
	msgNameNotString = "expected 'name' to be a string in cfg.json"
	msgEmptyName     = "hostname is empty or contains only whitespace"
)

// NameFromConfig extracts the device-reported name (id.name) from a raw
// /cfg.json body. The value is returned verbatim, surrounding
// whitespace included, as long as it is non-empty after trimming.
func NameFromConfig(body []byte) (string, error) {
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		return "", NewParseError("failed to parse cfg.json", err)
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return "", NewIdentityError(msgMissingID)
	}

	idVal, ok := obj["id"]
	if !ok {
		return "", NewIdentityError(msgMissingID)
	}

	idObj, ok := idVal.(map[string]any)
	if !ok {
		return "", NewIdentityError(msgMissingName)
	}

	nameVal, ok := idObj["name"]
	if !ok {
		return "", NewIdentityError(msgMissingName)
	}

	name, ok := nameVal.(string)
	if !ok {
		return "", NewIdentityError(msgNameNotString)
	}

	if strings.TrimSpace(name) == "" {
		return "", NewIdentityError(msgEmptyName)
	}

	return name, nil
}

// HostnameStem derives a filename stem from an advertised hostname by
// taking the text before the first dot ("wled-deck.local." becomes
// "wled-deck"). An empty result falls back to "wled".
func HostnameStem(hostname string) string {
	stem, _, _ := strings.Cut(hostname, ".")
	if stem == "" {
		return "wled"
	}
	return stem
}
