// Package appid holds the static identity of the namevetter binary.
package appid

// Identity names the application on disk, in the environment and in
// telemetry.
type Identity struct {
	BinaryName  string
	ConfigName  string
	EnvPrefix   string
	Namespace   string
	Description string
	APIVersion  string
}

var identity = Identity{
	BinaryName:  "namevetter",
	ConfigName:  "namevetter",
	EnvPrefix:   "NAMEVETTER",
	Namespace:   "namevetter",
	Description: "Check whether a brand name is free across domains and social handles",
	APIVersion:  "1.0.0",
}

// Get returns the application identity.
func Get() Identity {
	return identity
}
