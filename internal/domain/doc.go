// Package domain contains the core types for beerprep: corpus listings,
// staging results and the VAE/normalizing-flow model configuration.
//
// The domain does not depend on YAML parsing, git or the filesystem.
// Infra/adapters map into/from these types.
package domain
