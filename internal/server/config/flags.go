package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, "" disables
//	-s string   token signing secret
//	-k string   file encryption secret
//	-t int      token validity, minutes
//	-r int      key validity, minutes
//	-u int      max upload size, bytes
//	-w int      binding sweep interval, minutes
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-m", "-s", "-k", "-t", "-r", "-u", "-w"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for /metrics")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "token signing secret")
	fs.StringVar(&config.EncryptionSecret, "k", config.EncryptionSecret, "file encryption secret")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	keyValidity := fs.Int("r", int(config.KeyValidityDuration.Minutes()), "key validity (in minutes)")
	fs.Int64Var(&config.MaxUploadBytes, "u", config.MaxUploadBytes, "max upload size (in bytes)")
	sweep := fs.Int("w", int(config.SweepInterval.Minutes()), "binding sweep interval (in minutes)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// only overwrite durations that were given, so sub-minute values from
	// JSON or env survive
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "r":
			config.KeyValidityDuration = time.Duration(*keyValidity) * time.Minute
		case "w":
			config.SweepInterval = time.Duration(*sweep) * time.Minute
		}
	})
	return nil
}
