// Package common holds process-level identity and logging setup shared by all
// imgsource binaries.
package common

// PackageName tags metrics and logs emitted by this service.
const PackageName = "imgsource"

// Version is set at build time via -ldflags.
var Version = "dev"
