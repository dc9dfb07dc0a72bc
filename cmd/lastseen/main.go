// Command lastseen prints the most recent login for local accounts.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hostwatch/lastseen/internal/config"
	"github.com/hostwatch/lastseen/internal/domain/login"
	"github.com/hostwatch/lastseen/internal/history"
	"github.com/hostwatch/lastseen/internal/passwd"
	"github.com/hostwatch/lastseen/internal/platform"
)

func main() {
	var (
		all      = flag.Bool("all", false, "resolve every local account")
		name     = flag.String("user", "", "resolve a single account by name")
		uid      = flag.Int("uid", -1, "resolve a single account by numeric id")
		boot     = flag.Bool("boot", false, "print the most recent system boot record")
		db       = flag.String("db", "", "explicit login database path (overrides auto-selection)")
		snapshot = flag.Bool("snapshot", false, "archive the full resolution into the history store")
		asJSON   = flag.Bool("json", false, "emit JSON instead of a table")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	if *db != "" {
		cfg.Database.Path = *db
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	dir := passwd.NewDirectory(cfg.Database.PasswdPath)
	resolver := login.NewResolver(platform.Readers(dir), cfg.Database.Path, logger)

	switch {
	case *snapshot:
		if err := takeSnapshot(cfg, resolver); err != nil {
			fatal(err)
		}
	case *boot:
		rec, err := resolver.ResolveBootTime()
		if err != nil {
			fatal(err)
		}
		printRecords(os.Stdout, []login.Record{rec}, *asJSON)
	case *all:
		records, err := resolver.ResolveAll()
		if err != nil {
			fatal(err)
		}
		printRecords(os.Stdout, records, *asJSON)
	case *name != "":
		rec, err := resolver.ResolveName(*name)
		if err != nil {
			fatal(err)
		}
		printRecords(os.Stdout, []login.Record{rec}, *asJSON)
	case *uid >= 0:
		rec, err := resolver.ResolveUID(uint32(*uid))
		if err != nil {
			fatal(err)
		}
		printRecords(os.Stdout, []login.Record{rec}, *asJSON)
	default:
		rec, err := platform.ResolveSelf(resolver, dir)
		if err != nil {
			fatal(err)
		}
		printRecords(os.Stdout, []login.Record{rec}, *asJSON)
	}
}

func takeSnapshot(cfg config.Config, resolver *login.Resolver) error {
	if cfg.History.Path == "" {
		return fmt.Errorf("no history path configured; set LASTSEEN_HISTORY_PATH")
	}
	records, err := resolver.ResolveAll()
	if err != nil {
		return err
	}
	source, err := resolver.Source()
	if err != nil {
		return err
	}
	db, err := history.New(cfg.History.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.RunMigrations(); err != nil {
		return err
	}
	snap, err := history.NewArchiver(db).Archive(context.Background(), source, records)
	if err != nil {
		return err
	}
	fmt.Printf("archived snapshot %s (%d records)\n", snap.ID, snap.Records)
	return nil
}

func printRecords(out io.Writer, records []login.Record, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			fatal(err)
		}
		return
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tUID\tTTY\tLAST LOGIN")
	for _, rec := range records {
		uid := "-"
		if rec.UID != nil {
			uid = fmt.Sprintf("%d", *rec.UID)
		}
		last := "Never logged in"
		if rec.LastLogin.LoggedIn {
			last = rec.LastLogin.At.Format(time.RFC1123)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", rec.Name, uid, rec.TTY, last)
	}
	w.Flush()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "lastseen: %v\n", err)
	os.Exit(1)
}
