package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	jwtmw "stocklinker/internal/platform/jwt"
)

type tokenCmd struct {
	device string
	ttl    time.Duration
}

func (*tokenCmd) Name() string     { return "token" }
func (*tokenCmd) Synopsis() string { return "issue a device token for the API" }
func (*tokenCmd) Usage() string {
	return `token -device <id> [-ttl <duration>]

  Signs a device token with API_TOKEN_SECRET. A ttl of 0 issues a token without expiry.
`
}

func (c *tokenCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.device, "device", "", "device identifier (required)")
	f.DurationVar(&c.ttl, "ttl", 0, "token lifetime, 0 for no expiry")
}

func (c *tokenCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.device == "" {
		fmt.Fprintln(os.Stderr, "Error: -device is required.")
		return subcommands.ExitUsageError
	}
	secret := os.Getenv(jwtmw.EnvKeyTokenSecret)
	if secret == "" {
		fmt.Fprintf(os.Stderr, "Error: %s is not set.\n", jwtmw.EnvKeyTokenSecret)
		return subcommands.ExitFailure
	}

	var gen jwtmw.Generator = jwtmw.NewGenerator(secret, c.ttl)
	token, err := gen.GenerateToken(c.device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, token)
	return subcommands.ExitSuccess
}
