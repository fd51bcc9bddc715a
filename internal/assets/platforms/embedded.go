package platformsassets

import _ "embed"

// YAML is the built-in social platform table. A file with the same shape can
// replace it at runtime through `social.platforms_file`.
//
//go:embed platforms.yaml
var YAML []byte
