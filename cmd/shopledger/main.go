/*
main.go - Command-line surface for the shop ledger

PURPOSE:
  One small binary over the library packages: add entries, list and
  delete, merge per-barber files, import foreign CSVs, export, and run
  the monthly reports. Each subcommand owns its flag set.

SUBCOMMANDS:
  add       Record one entry (-yes accepts warnings)
  list      Show the actor-visible book
  delete    Remove an entry by ID
  merge     Merge per-barber CSV files into the book (owner)
  import    Import a foreign CSV with defaults
  export    Write the actor-visible book as CSV
  report    Monthly stats, plus owner financials and projection
  summary   Write the one-row monthly summary CSV (owner)
  accounts  Create, list, delete login accounts (owner)
  status    Data file health line

AUTHENTICATION:
  Every subcommand takes -user/-password. When the accounts file exists
  the pair must authenticate; when it does not, the ledger runs in
  single-user mode as the implicit owner. The accounts subcommand always
  opens (and thus bootstraps) the accounts file.

EXIT CODES:
  0 done, 1 error, 2 validation blocked or confirmation required

EXAMPLES:
  shopledger add -barber "Marcus" -customer "J Cole" -service "Haircut" -cost 35
  shopledger report -month 2026-08
  shopledger merge chair1.csv chair2.csv

SEE ALSO:
  - config: SHOP_* environment keys and defaults
  - session: the operations behind every subcommand
*/
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chairside/shop-ledger/accounts"
	"github.com/chairside/shop-ledger/config"
	"github.com/chairside/shop-ledger/ledger"
	"github.com/chairside/shop-ledger/session"
	"github.com/chairside/shop-ledger/store/csvfile"
)

const (
	exitErr     = 1
	exitBlocked = 2
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitErr)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitErr)
	}
	log := cfg.Logger(os.Stderr)

	app := &app{cfg: cfg, log: log}
	code, err := app.run(os.Args[1], os.Args[2:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if code == 0 {
			code = exitErr
		}
	}
	os.Exit(code)
}

// app carries what every subcommand needs.
type app struct {
	cfg *config.Config
	log *slog.Logger
}

func (a *app) run(cmd string, args []string) (int, error) {
	switch cmd {
	case "add":
		return a.runAdd(args)
	case "list":
		return a.runList(args)
	case "delete":
		return a.runDelete(args)
	case "merge":
		return a.runMerge(args)
	case "import":
		return a.runImport(args)
	case "export":
		return a.runExport(args)
	case "report":
		return a.runReport(args)
	case "summary":
		return a.runSummary(args)
	case "accounts":
		return a.runAccounts(args)
	case "status":
		return a.runStatus(args)
	case "help", "-h", "--help":
		printUsage()
		return 0, nil
	default:
		printUsage()
		return exitErr, fmt.Errorf("unknown subcommand %q", cmd)
	}
}

// authenticate resolves the acting user. With an accounts file on disk
// the credentials must check out; without one the shop runs single-user
// as the implicit owner.
func (a *app) authenticate(user, password string) (ledger.Actor, error) {
	if _, err := os.Stat(a.cfg.AccountsFile); os.IsNotExist(err) && user == "" {
		return ledger.Owner("Owner"), nil
	}
	st, err := accounts.Open(a.cfg.AccountsFile, a.log)
	if err != nil {
		return ledger.Actor{}, err
	}
	acct, err := st.Authenticate(user, password)
	if err != nil {
		return ledger.Actor{}, err
	}
	return acct.Actor(), nil
}

// openSession authenticates and opens the ledger in one step.
func (a *app) openSession(user, password string) (*session.Session, error) {
	actor, err := a.authenticate(user, password)
	if err != nil {
		return nil, err
	}
	store := csvfile.New(a.cfg.DataFile, a.cfg.BackupFile, a.log)
	return session.Open(store, actor, a.log), nil
}

// parseMonth accepts "2006-01" and defaults to the current month.
func parseMonth(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -month %q, want YYYY-MM", s)
	}
	return t, nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: shopledger <subcommand> [flags]

Subcommands:
  add       Record one ledger entry
  list      Show the visible book
  delete    Remove an entry by ID
  merge     Merge per-barber CSV files (owner)
  import    Import a foreign CSV
  export    Write the visible book as CSV
  report    Monthly stats and owner financials
  summary   Monthly summary CSV (owner)
  accounts  Manage login accounts (owner)
  status    Data file health

Run "shopledger <subcommand> -h" for flags. All subcommands accept
-user and -password when an accounts file is in use.
`)
}
