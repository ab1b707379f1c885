// Package secrets resolves named secrets at process startup.
//
// Production services read from Google Secret Manager. Local runs can use the
// environment provider, which looks the secret name up as an environment
// variable.
package secrets
