// Package startup handles application configuration, startup logging, and
// build information.
//
// Configuration is loaded from environment variables. The object store
// endpoint and public key are required; everything else has defaults.
package startup
