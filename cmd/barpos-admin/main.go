// barpos-admin is the operational CLI: it applies the schema and manages
// the bootstrap admin account.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"barpos/internal/config"
	"barpos/internal/connections/database"
	"barpos/internal/repository"
	"barpos/internal/users"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (auto-discovered when empty)")
	username := flag.String("username", "admin", "create-admin: username")
	password := flag.String("password", "", "create-admin: password")
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		fmt.Fprintln(os.Stderr, "usage: barpos-admin [flags] init-schema | create-admin")
		os.Exit(2)
	}

	path := *cfgPath
	if path == "" {
		var err error
		if path, err = config.FindConfig(); err != nil {
			fatal(fmt.Errorf("no config file found; pass --config"))
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		fatal(err)
	}
	defer pool.Close()

	switch cmd {
	case "init-schema":
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			fatal(err)
		}
		fmt.Println("schema applied")
	case "create-admin":
		if *password == "" {
			fatal(fmt.Errorf("--password is required for create-admin"))
		}
		if err := repository.EnsureSchema(ctx, pool); err != nil {
			fatal(err)
		}
		svc := users.NewService(repository.NewUsersRepo(pool))
		created, err := svc.EnsureAdmin(ctx, *username, *password)
		if err != nil {
			fatal(err)
		}
		if created {
			fmt.Printf("admin %q created\n", *username)
		} else {
			fmt.Println("users already exist, nothing to do")
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		os.Exit(2)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
