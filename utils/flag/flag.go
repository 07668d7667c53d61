/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
)

var (
	IsDevelopment bool
	ByPassAuth    bool
	ServiceName   string
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "set to true to skip session validation, for local development only")
	flag.StringVar(&ServiceName, "service", APIServer, "service name reported to logging and tracing")
}

// ParseFlags must be called once from main before any flag value is read.
func ParseFlags() {
	flag.Parse()
}
