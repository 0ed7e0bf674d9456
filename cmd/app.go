// Package cmd implements the CLI application to keep the books.
package cmd

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/snapshot"
	"github.com/etnz/cashbook/storage"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/subcommands"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd.Command, cmd.Group)
	}
}

// Command is a subcommand and the group it is listed in.
type Command struct {
	subcommands.Command
	Group string
}

// Commands lists every subcommand of the application.
var Commands = []Command{
	{&productAddCmd{}, "inventory"},
	{&productEditCmd{}, "inventory"},
	{&productRmCmd{}, "inventory"},
	{&productsCmd{}, "inventory"},

	{&entryAddCmd{}, "ledger"},
	{&entryEditCmd{}, "ledger"},
	{&entryRmCmd{}, "ledger"},
	{&openingCmd{}, "ledger"},
	{&ledgerCmd{}, "ledger"},

	{&saveCmd{}, "snapshots"},
	{&loadCmd{}, "snapshots"},
	{&snapshotsCmd{}, "snapshots"},
	{&snapshotRmCmd{}, "snapshots"},
	{&queryCmd{}, "snapshots"},

	{&exportCmd{}, "spreadsheets"},
	{&importCmd{}, "spreadsheets"},

	{&settingsCmd{}, "settings"},
	{&topicCmd{}, "help"},
}

// Environment variables read when the matching flag is not set. They are
// also passed to extensions.
const (
	EnvBackend   = "CASHBOOK_BACKEND"
	EnvFile      = "CASHBOOK_FILE"
	EnvDir       = "CASHBOOK_DIR"
	EnvRedisAddr = "CASHBOOK_REDIS_ADDR"
	EnvSQLDriver = "CASHBOOK_SQL_DRIVER"
	EnvSQLDSN    = "CASHBOOK_SQL_DSN"
	EnvSQLTable  = "CASHBOOK_SQL_TABLE"
	EnvVerbose   = "CASHBOOK_VERBOSE"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	backendFlag   = flag.String("backend", "", "Storage backend: file, dir, redis, sql or memory. Env "+EnvBackend+", default \"file\".")
	fileFlag      = flag.String("file", "", "Path of the JSON store of the file backend. Env "+EnvFile+", default \"cashbook.json\".")
	dirFlag       = flag.String("dir", "", "Root folder of the dir backend. Env "+EnvDir+", default \".cashbook\".")
	redisAddrFlag = flag.String("redis-addr", "", "Address of the redis backend. Env "+EnvRedisAddr+", default \"localhost:6379\".")
	sqlDriverFlag = flag.String("sql-driver", "", "Driver of the sql backend: mysql or postgres. Env "+EnvSQLDriver+", default \"mysql\".")
	sqlDSNFlag    = flag.String("sql-dsn", "", "Data source name of the sql backend. Env "+EnvSQLDSN+".")
	sqlTableFlag  = flag.String("sql-table", "", "Table of the sql backend. Env "+EnvSQLTable+", default \""+storage.DefaultTable+"\".")
	Verbose       = flag.Bool("v", false, "Log storage events to stderr. Env "+EnvVerbose+".")
	rawFlag       = flag.Bool("raw", false, "Print plain markdown instead of rendering it for the terminal.")
)

// stdout is where reports are printed.
var stdout io.Writer = os.Stdout

// Config is the resolved configuration of the storage.
type Config struct {
	Backend   string
	File      string
	Dir       string
	RedisAddr string
	SQLDriver string
	SQLDSN    string
	SQLTable  string
	Verbose   bool
}

// resolve returns the flag value if set, then the environment variable, then def.
func resolve(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// LoadConfig resolves the configuration from flags, environment (including a
// .env file loaded by the main package) and defaults.
func LoadConfig() Config {
	verbose := *Verbose
	if !verbose {
		verbose, _ = strconv.ParseBool(os.Getenv(EnvVerbose))
	}
	return Config{
		Backend:   resolve(*backendFlag, EnvBackend, "file"),
		File:      resolve(*fileFlag, EnvFile, "cashbook.json"),
		Dir:       resolve(*dirFlag, EnvDir, ".cashbook"),
		RedisAddr: resolve(*redisAddrFlag, EnvRedisAddr, "localhost:6379"),
		SQLDriver: resolve(*sqlDriverFlag, EnvSQLDriver, "mysql"),
		SQLDSN:    resolve(*sqlDSNFlag, EnvSQLDSN, ""),
		SQLTable:  resolve(*sqlTableFlag, EnvSQLTable, storage.DefaultTable),
		Verbose:   verbose,
	}
}

// SetupLogging silences the logs unless verbose.
func SetupLogging(cfg Config) {
	log.SetFlags(0)
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}
}

// OpenBackend opens the storage backend selected by cfg. The returned close
// function releases its connections, if any.
func OpenBackend(ctx context.Context, cfg Config) (storage.Backend, func() error, error) {
	nop := func() error { return nil }
	switch cfg.Backend {
	case "memory":
		return storage.NewMap(), nop, nil
	case "file":
		return storage.NewFile(cfg.File), nop, nil
	case "dir":
		return storage.NewDir(cfg.Dir), nop, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("cannot connect to redis at %q: %w", cfg.RedisAddr, err)
		}
		log.Printf("open-backend backend=redis addr=%q", cfg.RedisAddr)
		return storage.NewRedis(client, storage.DefaultRedisPrefix), client.Close, nil
	case "sql":
		dialect, err := storage.ParseDialect(cfg.SQLDriver, cfg.SQLTable)
		if err != nil {
			return nil, nil, err
		}
		if cfg.SQLDSN == "" {
			return nil, nil, fmt.Errorf("the sql backend needs a data source name (-sql-dsn or %s)", EnvSQLDSN)
		}
		db, err := sql.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open %s database: %w", cfg.SQLDriver, err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("cannot connect to %s database: %w", cfg.SQLDriver, err)
		}
		s := storage.NewSQL(db, dialect)
		if err := s.CreateTable(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Printf("open-backend backend=sql driver=%q table=%q", cfg.SQLDriver, cfg.SQLTable)
		return s, db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q, want file, dir, redis, sql or memory", cfg.Backend)
	}
}

// book is what a command works on: the store and the user's settings.
type book struct {
	backend  storage.Backend
	store    *snapshot.Store
	settings *cashbook.Settings
	close    func() error
}

// openBook opens the configured backend and loads the settings.
func openBook(ctx context.Context) (*book, error) {
	backend, closeFn, err := OpenBackend(ctx, LoadConfig())
	if err != nil {
		return nil, err
	}
	settings, err := cashbook.LoadSettings(ctx, backend)
	if err != nil {
		closeFn()
		return nil, err
	}
	return &book{backend: backend, store: snapshot.New(backend), settings: settings, close: closeFn}, nil
}

func (b *book) Close() error { return b.close() }

// printMarkdown prints md rendered for the terminal, in the theme of the
// settings, or as is with -raw.
func (b *book) printMarkdown(md string) {
	printMarkdown(md, b.settings.Theme)
}

func printMarkdown(md, theme string) {
	if *rawFlag {
		fmt.Fprint(stdout, md)
		return
	}
	style := glamour.WithAutoStyle()
	if theme == cashbook.DarkTheme || theme == cashbook.LightTheme {
		style = glamour.WithStandardStyle(theme)
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
