package cli

import "runtime"

// Version is the released version, overridden at build time with
// -ldflags "-X github.com/Fepozopo/tonyscale/pkg/cli.Version=...".
var Version = "0.1.0"

// platform used to pick release assets; replaced in tests.
var goos, goarch = runtime.GOOS, runtime.GOARCH
