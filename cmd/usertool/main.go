// Command usertool manages accounts from the command line. There is no
// self-service signup: an operator creates users, approves them, and mints
// their initial access token here.
//
// Usage:
//
//	usertool create -email a@b.c -name "Ada"
//	usertool approve -email a@b.c
//	usertool token -email a@b.c
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/memecached/memecached-web/internal/adapter/postgres"
	userrepo "github.com/memecached/memecached-web/internal/adapter/postgres/user"
	"github.com/memecached/memecached-web/internal/auth"
	"github.com/memecached/memecached-web/internal/config"
	"github.com/memecached/memecached-web/internal/domain"
)

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet(cmd, flag.ExitOnError)
	email := fs.String("email", "", "user email (required)")
	name := fs.String("name", "", "display name (create only)")
	fs.Parse(os.Args[2:]) //nolint:errcheck // ExitOnError

	if *email == "" {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer pool.Close()

	users := userrepo.New(pool)

	switch cmd {
	case "create":
		if *name == "" {
			usage()
		}
		u, err := users.Create(ctx, *email, *name)
		if err != nil {
			log.Fatalf("create user: %v", err)
		}
		fmt.Printf("created %s (%s), status %s\n", u.Email, u.ID, u.Status)

	case "approve":
		u, err := users.GetByEmail(ctx, *email)
		if err != nil {
			log.Fatalf("find user: %v", err)
		}
		u, err = users.UpdateStatus(ctx, u.ID, domain.StatusApproved)
		if err != nil {
			log.Fatalf("approve user: %v", err)
		}
		fmt.Printf("approved %s (%s)\n", u.Email, u.ID)

	case "token":
		u, err := users.GetByEmail(ctx, *email)
		if err != nil {
			log.Fatalf("find user: %v", err)
		}
		tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTTL)
		token, err := tokens.GenerateAccessToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatalf("generate token: %v", err)
		}
		fmt.Println(token)

	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: usertool {create|approve|token} -email <email> [-name <name>]")
	os.Exit(1)
}
