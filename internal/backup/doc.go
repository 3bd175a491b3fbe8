// Package backup fetches and persists configuration and preset data
// from WLED devices.
//
// The orchestrator processes discovered devices sequentially. For each
// device it fetches the backup resources over plain HTTP, resolves a
// filename stem under the selected identity policy, and writes the
// verbatim response bodies to the output directory. Failures are scoped
// to the device they occur on: the failing device gets a failed outcome
// and processing continues with the next one. The batch as a whole is
// successful only if every device succeeded.
//
// # Identity policies
//
// IdentityConfigDerived fetches /cfg.json first, names files after the
// device's self-reported id.name, and saves <stem>_cfg.json plus
// <stem>_presets.json. Nothing is written for a device whose cfg.json
// cannot be parsed or names no usable identity.
//
// IdentityHostnameDerived names files after the advertised hostname
// (text before the first dot) and saves a single <stem>.json from
// /presets.json.
//
// # Errors
//
// All per-device failures are DeviceErrors tagged with an ErrorKind
// (network, HTTP status, parse, identity, file) so callers can match on
// the failure category.
package backup
