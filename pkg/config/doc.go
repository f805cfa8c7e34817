// Package config manages CertMint configuration.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables. Each attribute tracks its source (default, file, or
// environment), which the "certmintctl configuration show" command
// surfaces for operators.
//
// The config file lives at /etc/certmint/config/certmint.yml by default;
// set CERTMINT_CONFIG_PATH to point at a different directory. Environment
// overrides use the CERTMINT_ prefix, e.g. CERTMINT_BATCH_ISSUE_LIMIT_MAX.
package config
