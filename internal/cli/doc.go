// Package cli defines the command-line surface: flags, the cobra command
// tree and the viper configuration plumbing.
package cli
