// cmd/gputracectl/main.go

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"gputrace/internal/server/db"
)

var (
	pageSize = flag.Int("limit", 50, "Maximum number of runs to list")
	version  = flag.Bool("version", false, "Show version information")
)

const ctlVersion = "0.1.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("gputracectl version %s\n", ctlVersion)
		return
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	// .env is optional; environment variables may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	conn, err := db.Connect(db.NewDefaultConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database := db.New(conn)

	switch args[0] {
	case "get":
		if len(args) < 2 {
			log.Fatal("Run ID required")
		}
		getRun(database, args[1])

	case "list":
		listRuns(database)

	case "delete":
		if len(args) < 2 {
			log.Fatal("Run ID required")
		}
		deleteRun(database, args[1])

	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: gputracectl [flags] <command>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  list           List stored profile runs\n")
	fmt.Fprintf(os.Stderr, "  get <id>       Show one run with its averaged operations\n")
	fmt.Fprintf(os.Stderr, "  delete <id>    Delete a stored run\n\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
}

func getRun(database *db.Database, id string) {
	run, err := database.GetRunByID(id)
	if err != nil {
		log.Fatalf("Failed to get run: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()
	printRunDetails(w, run)
}

func listRuns(database *db.Database) {
	runs, err := database.ListRuns(*pageSize, "")
	if err != nil {
		log.Fatalf("Failed to list runs: %v", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "RUN ID\tCREATED\tTRACE\tSTEPS\tREF LEN\tSKIPPED\n")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%d\n",
			run.ID,
			run.CreatedAt.Format(time.RFC3339),
			run.TracePath,
			run.StepsRemaining,
			run.StepsFound,
			run.ReferenceLength,
			run.LengthMismatches+run.NameMismatches)
	}
}

func deleteRun(database *db.Database, id string) {
	if err := database.DeleteRun(id); err != nil {
		log.Fatalf("Failed to delete run: %v", err)
	}
	fmt.Printf("Deleted run %s\n", id)
}
