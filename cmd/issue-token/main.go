package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/princekumarofficial/upload-service/internal/config"
	"github.com/princekumarofficial/upload-service/internal/utils/jwt"
)

// issue-token prints a bearer token for the ledger listing and the outcome
// feed, signed with the configured secret.
func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

// run parses its own flags so -config works whether or not CONFIG_PATH is
// set; the flag wins when both are given.
func run(args []string, out io.Writer) error {
	flags := flag.NewFlagSet("issue-token", flag.ContinueOnError)
	configPath := flags.String("config", os.Getenv("CONFIG_PATH"), "Path to config file (defaults to CONFIG_PATH)")
	subject := flags.String("subject", "admin", "Token subject")
	ttl := flags.Duration("ttl", 24*time.Hour, "Token lifetime")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return errors.New("config path must be provided")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	token, err := jwt.GenerateToken(*subject, cfg.JWTSecret, *ttl)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
