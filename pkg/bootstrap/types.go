// Package bootstrap loads the channel definitions file applied at startup.
package bootstrap

// ChannelDefinition declares one channel to register at startup.
type ChannelDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Enabled turns the channel on immediately after registration.
	Enabled bool `json:"enabled,omitempty"`
}

// ChannelsConfig is the root of the definitions file.
type ChannelsConfig struct {
	// Version is the definitions format version; it must satisfy the
	// supported constraint so incompatible files fail at startup, not at
	// first use.
	Version  string              `json:"version"`
	Channels []ChannelDefinition `json:"channels"`
}
