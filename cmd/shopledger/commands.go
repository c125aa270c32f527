package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/chairside/shop-ledger/accounts"
	"github.com/chairside/shop-ledger/ledger"
	"github.com/chairside/shop-ledger/report"
	"github.com/chairside/shop-ledger/session"
)

// =============================================================================
// ADD
// =============================================================================

func (a *app) runAdd(args []string) (int, error) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	barber := fs.String("barber", "", "barber name (defaults to your display name)")
	customer := fs.String("customer", "", "customer name")
	service := fs.String("service", string(ledger.ServiceHaircut), "service type")
	costStr := fs.String("cost", "", "cost in dollars")
	roleStr := fs.String("role", string(ledger.RoleEmployee), "Employee or Owner")
	dateStr := fs.String("date", "", "date YYYY-MM-DD (default today)")
	clock := fs.String("time", "", "clock time HH:MM:SS (default now)")
	duration := fs.Int("duration", ledger.DefaultDurationMin, "duration in minutes (15/30/45/60/90)")
	yes := fs.Bool("yes", false, "accept warnings without asking")
	fs.Parse(args)

	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	in := ledger.NewEntryInput{
		Barber:   *barber,
		Customer: *customer,
		Clock:    *clock,
		Duration: *duration,
	}
	// A barber always books under their own name; only owners book for
	// someone else.
	actor := sess.Actor()
	if !actor.IsOwner() || in.Barber == "" {
		in.Barber = actor.DisplayName
	}
	if svc, ok := ledger.ParseServiceType(*service); ok {
		in.Service = svc
	} else {
		return exitErr, fmt.Errorf("unknown service %q (valid: %v)", *service, ledger.ServiceTypes())
	}
	if role, ok := ledger.ParseRole(*roleStr); ok {
		in.Role = role
	} else {
		return exitErr, fmt.Errorf("unknown role %q (valid: %v)", *roleStr, ledger.Roles())
	}
	if *costStr != "" {
		cost, err := decimal.NewFromString(*costStr)
		if err != nil {
			return exitErr, fmt.Errorf("invalid -cost %q", *costStr)
		}
		in.Cost = cost
	}
	if *dateStr != "" {
		d, ok := ledger.ParseDate(*dateStr)
		if !ok {
			return exitErr, fmt.Errorf("invalid -date %q", *dateStr)
		}
		in.Date = d
	}

	res, err := sess.Add(in)
	if err != nil {
		return exitErr, err
	}

	switch res.Outcome {
	case session.AddBlocked:
		for _, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		}
		return exitBlocked, nil

	case session.AddPending:
		if !*yes {
			for _, msg := range res.Warnings {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
			}
			fmt.Fprintln(os.Stderr, "Nothing saved. Re-run with -yes to confirm.")
			return exitBlocked, nil
		}
		res, err = sess.ConfirmPending()
		if err != nil {
			return exitErr, err
		}
	}

	for _, msg := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
	if res.SaveErr != nil {
		return exitErr, fmt.Errorf("entry %s was not written to disk: %w", res.Entry.ID, res.SaveErr)
	}
	fmt.Printf("Saved %s: %s for %s, $%s\n",
		res.Entry.ID, res.Entry.Service, res.Entry.CustomerName, res.Entry.Cost.StringFixed(2))
	return 0, nil
}

// =============================================================================
// LIST / DELETE / STATUS
// =============================================================================

func (a *app) runList(args []string) (int, error) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	records := sess.Records()
	if len(records) == 0 {
		fmt.Println("No entries.")
		return 0, nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tTime\tBarber\tCustomer\tService\tCost\tRole\tMin")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Date, r.Time, r.BarberName, r.CustomerName, r.ServiceType, r.Cost, r.Role, r.DurationMin)
	}
	tw.Flush()
	fmt.Printf("%d entries\n", len(records))
	return 0, nil
}

func (a *app) runDelete(args []string) (int, error) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	id := fs.String("id", "", "entry ID to delete")
	fs.Parse(args)

	if *id == "" {
		return exitErr, errors.New("delete requires -id")
	}
	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}
	if err := sess.Delete(ledger.EntryID(*id)); err != nil {
		return exitErr, err
	}
	if err := sess.Save(); err != nil {
		return exitErr, err
	}
	fmt.Printf("Deleted %s\n", *id)
	return 0, nil
}

func (a *app) runStatus(args []string) (int, error) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	st := sess.Status()
	fmt.Printf("Data file: %s\n", st.DataFile)
	if st.HasFile {
		fmt.Printf("Last modified: %s\n", st.ModTime.Format("2006-01-02 15:04:05"))
	} else {
		fmt.Println("Last modified: (no file yet)")
	}
	fmt.Printf("Visible entries: %d\n", st.Records)
	fmt.Printf("Loaded from: %s\n", st.Source)
	if st.SkippedRows > 0 {
		fmt.Printf("Skipped malformed rows: %d\n", st.SkippedRows)
	}
	if st.LoadWarning != nil {
		fmt.Printf("Load warning: %v\n", st.LoadWarning)
	}
	return 0, nil
}

// =============================================================================
// MERGE / IMPORT / EXPORT
// =============================================================================

func (a *app) runMerge(args []string) (int, error) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	paths := fs.Args()
	if len(paths) == 0 {
		return exitErr, errors.New("merge requires at least one CSV file argument")
	}
	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}
	if !sess.Actor().IsOwner() {
		return exitErr, errors.New("merge requires an owner login")
	}

	res, mergeErr := sess.MergeFiles(paths...)
	for _, name := range res.Accepted {
		fmt.Printf("Merged %s\n", name)
	}
	for _, rej := range res.Rejected {
		fmt.Fprintf(os.Stderr, "Rejected: %v\n", rej)
	}
	fmt.Printf("%d rows added, %d IDs assigned, %d duplicates removed, %d total\n",
		res.Added, res.AssignedIDs, res.DuplicatesRemoved, len(res.Records))
	if mergeErr != nil {
		return exitErr, mergeErr
	}
	return 0, nil
}

func (a *app) runImport(args []string) (int, error) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	file := fs.String("file", "", "CSV file to import")
	fs.Parse(args)

	if *file == "" {
		return exitErr, errors.New("import requires -file")
	}
	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	res, err := sess.ImportFile(*file)
	if err != nil {
		return exitErr, err
	}
	fmt.Printf("Imported %d rows from %s\n", res.Imported, *file)
	return 0, nil
}

func (a *app) runExport(args []string) (int, error) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	out := fs.String("out", "", "output file (default stdout)")
	fs.Parse(args)

	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return exitErr, err
		}
		defer f.Close()
		w = f
	}
	if err := sess.ExportCSV(w); err != nil {
		return exitErr, err
	}
	if *out != "" {
		fmt.Printf("Exported %d entries to %s\n", len(sess.Records()), *out)
	}
	return 0, nil
}

// =============================================================================
// REPORT / SUMMARY
// =============================================================================

func (a *app) runReport(args []string) (int, error) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	month := fs.String("month", "", "month as YYYY-MM (default current)")
	fs.Parse(args)

	anchor, err := parseMonth(*month)
	if err != nil {
		return exitErr, err
	}
	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}

	w := report.MonthWindow(anchor)
	entries := w.Filter(sess.Entries())
	stats := report.Summarize(entries)

	fmt.Printf("Report for %s\n", w.Label())
	fmt.Printf("  Revenue:       $%s\n", stats.Revenue.StringFixed(2))
	fmt.Printf("  Transactions:  %d\n", stats.Transactions)
	fmt.Printf("  Average price: $%s\n", stats.AveragePrice.StringFixed(2))
	fmt.Printf("  Services:      %d\n", stats.Services)

	if byBarber := report.RevenueByBarber(entries); len(byBarber) > 0 {
		fmt.Println("\nRevenue by barber:")
		for _, b := range byBarber {
			fmt.Printf("  %-20s $%s\n", b.Barber, b.Revenue.StringFixed(2))
		}
	}
	if byService := report.RevenueByService(entries); len(byService) > 0 {
		fmt.Println("\nRevenue by service:")
		for _, s := range byService {
			fmt.Printf("  %-20s $%s\n", s.Service, s.Revenue.StringFixed(2))
		}
	}
	if byHour := report.TransactionsByHour(entries); len(byHour) > 0 {
		fmt.Println("\nTransactions by hour:")
		for _, h := range byHour {
			fmt.Printf("  %02d:00  %d\n", h.Hour, h.Count)
		}
	}

	if !sess.Actor().IsOwner() {
		return 0, nil
	}

	set := a.cfg.OwnerSettings()
	fin := report.Financials(sess.Entries(), w, set)
	fmt.Println("\nOwner financials:")
	fmt.Printf("  Owner revenue:    $%s\n", fin.OwnerRevenue.StringFixed(2))
	fmt.Printf("  Employee revenue: $%s\n", fin.EmployeeRevenue.StringFixed(2))
	fmt.Printf("  Commission:       $%s\n", fin.Commission.StringFixed(2))
	fmt.Printf("  Gross:            $%s\n", fin.Gross.StringFixed(2))
	fmt.Printf("  Expenses:         $%s\n", fin.Expenses.StringFixed(2))
	fmt.Printf("  Net profit:       $%s\n", fin.Net.StringFixed(2))

	proj := report.Project(sess.Entries(), w, set)
	if proj.ActiveDays > 0 {
		fmt.Println("\n30-day projection:")
		fmt.Printf("  Active days:     %d\n", proj.ActiveDays)
		fmt.Printf("  Daily average:   $%s\n", proj.DailyAverage.StringFixed(2))
		fmt.Printf("  Projected total: $%s\n", proj.Projected.StringFixed(2))
		fmt.Printf("  Projected net:   $%s\n", proj.ProjectedNet.StringFixed(2))
	}
	return 0, nil
}

func (a *app) runSummary(args []string) (int, error) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	month := fs.String("month", "", "month as YYYY-MM (default current)")
	out := fs.String("out", "", "output file (default summary_YYYY-MM.csv)")
	fs.Parse(args)

	anchor, err := parseMonth(*month)
	if err != nil {
		return exitErr, err
	}
	sess, err := a.openSession(*user, *password)
	if err != nil {
		return exitErr, err
	}
	if !sess.Actor().IsOwner() {
		return exitErr, errors.New("summary requires an owner login")
	}

	w := report.MonthWindow(anchor)
	fin := report.Financials(sess.Entries(), w, a.cfg.OwnerSettings())

	path := *out
	if path == "" {
		path = fmt.Sprintf("summary_%s.csv", w.Label())
	}
	f, err := os.Create(path)
	if err != nil {
		return exitErr, err
	}
	defer f.Close()
	if err := report.WriteSummaryCSV(f, fin); err != nil {
		return exitErr, err
	}
	fmt.Printf("Wrote %s\n", path)
	return 0, nil
}

// =============================================================================
// ACCOUNTS
// =============================================================================

func (a *app) runAccounts(args []string) (int, error) {
	fs := flag.NewFlagSet("accounts", flag.ExitOnError)
	user := fs.String("user", "", "username")
	password := fs.String("password", "", "password")
	op := fs.String("op", "list", "create, list or delete")
	username := fs.String("username", "", "target username")
	newPassword := fs.String("newpassword", "", "password for the new account")
	role := fs.String("role", string(accounts.RoleBarber), "owner or barber")
	name := fs.String("name", "", "display name for the new account")
	fs.Parse(args)

	existed := true
	if _, err := os.Stat(a.cfg.AccountsFile); os.IsNotExist(err) {
		existed = false
	}
	st, err := accounts.Open(a.cfg.AccountsFile, a.log)
	if err != nil {
		return exitErr, err
	}

	// Once the file exists, only an authenticated owner manages it. On
	// first run the bootstrap owner acts implicitly.
	if *user != "" {
		acct, err := st.Authenticate(*user, *password)
		if err != nil {
			return exitErr, err
		}
		if !acct.IsOwner() {
			return exitErr, errors.New("accounts management requires an owner login")
		}
	} else if existed {
		return exitErr, errors.New("accounts file exists; -user/-password required")
	}

	switch *op {
	case "create":
		acct, err := st.Create(accounts.CreateInput{
			Username:    *username,
			Password:    *newPassword,
			Role:        accounts.Role(*role),
			DisplayName: *name,
		})
		if err != nil {
			return exitErr, err
		}
		fmt.Printf("Created %s (%s) as %s\n", acct.Username, acct.Role, acct.DisplayName)

	case "list":
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Username\tRole\tDisplay name")
		for _, acct := range st.List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", acct.Username, acct.Role, acct.DisplayName)
		}
		tw.Flush()

	case "delete":
		if *username == "" {
			return exitErr, errors.New("delete requires -username")
		}
		if err := st.Delete(*username); err != nil {
			return exitErr, err
		}
		fmt.Printf("Deleted %s\n", *username)

	default:
		return exitErr, fmt.Errorf("unknown -op %q (valid: create, list, delete)", *op)
	}
	return 0, nil
}
