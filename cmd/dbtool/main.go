package main

import (
	"context"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/config"
	"courier-route-service/internal/platform/db"
	"database/sql"
	"flag"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// dbtool prepares the run history database: it creates the schema, can
// import runs exported as JSON and prunes old runs.
func main() {
	seedPath := flag.String("seed", "", "import runs from a JSON export")
	pruneDays := flag.Int("prune-days", 0, "delete runs older than this many days (0 keeps all)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found (using environment variables)")
	}

	conn, driver, err := openHistoryDB()
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := run(context.Background(), conn, driver, *seedPath, *pruneDays); err != nil {
		log.Fatal(err)
	}
}

// openHistoryDB connects to Postgres when DATABASE_URL is set and to the
// SQLite file at DB_PATH otherwise.
func openHistoryDB() (*sql.DB, string, error) {
	if databaseURL := strings.TrimSpace(config.Get("DATABASE_URL", "")); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		return conn, db.DriverPostgres, err
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	log.Infof("DATABASE_URL not set, using sqlite at %s", dbPath)
	conn, err := db.OpenSQLite(dbPath)
	return conn, db.DriverSQLite, err
}

// historyStore is implemented by both run repositories.
type historyStore interface {
	SaveRuns(ctx context.Context, runs []domain.RunRecord) error
	PruneRuns(ctx context.Context, before time.Time) (int64, error)
}

func newHistoryStore(conn *sql.DB, driver string) historyStore {
	if driver == db.DriverPostgres {
		return repositories.NewSQLRunRepository(conn)
	}
	return repositories.NewSqliteRunRepository(conn)
}

func run(ctx context.Context, conn *sql.DB, driver, seedPath string, pruneDays int) error {
	log.Info("Initializing database schema...")
	if err := repositories.InitSchema(conn, driver); err != nil {
		return err
	}
	log.Info("Schema ready.")

	store := newHistoryStore(conn, driver)

	if seedPath != "" {
		log.Infof("Importing runs from %s...", seedPath)
		seeds, err := repositories.ReadRunSeeds(seedPath)
		if err != nil {
			return err
		}
		if err := store.SaveRuns(ctx, seeds); err != nil {
			return err
		}
		log.Infof("Imported %d runs.", len(seeds))
	}

	if pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		n, err := store.PruneRuns(ctx, cutoff)
		if err != nil {
			return err
		}
		log.Infof("Pruned %d runs created before %s.", n, cutoff.Format(time.RFC3339))
	}

	return nil
}
