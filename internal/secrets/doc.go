// Package secrets redacts credentials from extracted projects before they
// are exported.
//
// Detection uses the Gitleaks default rule set through its Go SDK. Each
// detected secret is replaced with a [REDACTED:<rule-id>] marker so the
// exported note still shows what kind of value was removed. An optional
// TOML allowlist, in the same format as a .gitleaks.toml [allowlist]
// table, suppresses known-safe matches:
//
//	[allowlist]
//	regexes = ['''DEMO_KEY''', '''example\.com''']
//
// Redaction is opt-in. The analyze command enables it with --redact or the
// redaction.enabled configuration key.
package secrets
