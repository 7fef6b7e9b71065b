package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/iroha-tools/modbot/app/bot"
	"github.com/iroha-tools/modbot/app/config"
	"github.com/iroha-tools/modbot/app/events"
	"github.com/iroha-tools/modbot/app/server"
	"github.com/iroha-tools/modbot/app/storage"
)

type options struct {
	Token string `long:"token" env:"IROHA_DISCORD_MODBOT_TOKEN" description:"discord bot token" required:"true"`

	Options     string `long:"options" env:"OPTIONS" default:"options.json" description:"moderation options file"`
	Pairs       string `long:"pairs" env:"PAIRS" default:"restricted_pairs.json" description:"restricted pairs file"`
	Translation string `long:"translation" env:"TRANSLATION" default:"unicode_translation_table.json" description:"unicode translation table file"`

	DB       string `long:"db" env:"DB" description:"catalog database url, sqlite file or postgres://, files used if not set"`
	DBImport bool   `long:"db-import" env:"DB_IMPORT" description:"import catalog files into the database on startup"`
	GID      string `long:"gid" env:"GID" default:"modbot" description:"group id of catalogs in the database"`

	ChannelCacheTTL time.Duration `long:"channel-cache" env:"CHANNEL_CACHE" default:"5m" description:"channel info cache duration"`

	Logger struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable rotated removal log file"`
		FileName   string `long:"file" env:"FILE" default:"modbot.log" description:"location of removal log"`
		MaxSize    string `long:"max-size" env:"MAX_SIZE" default:"100M" description:"maximum size before it gets rotated"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"maximum number of old log files to retain"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Server struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable check api server"`
		ListenAddr string `long:"listen" env:"LISTEN" default:":8080" description:"listen address"`
		AuthPasswd string `long:"auth" env:"AUTH" description:"basic auth password for user modbot"`
	} `group:"server" namespace:"server" env-namespace:"SERVER"`

	Args struct {
		ConfigDir string `positional-arg-name:"config-dir" description:"directory with catalog files"`
	} `positional-args:"yes"`

	Dry bool `long:"dry" env:"DRY" description:"dry mode, no removals"`
	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "local"

func main() {
	fmt.Printf("modbot %s\n", revision)
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] can't load .env file, %v", err)
	}

	var opts options
	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	if _, err := p.Parse(); err != nil {
		var flagsErr *flags.Error
		if !errors.As(err, &flagsErr) || flagsErr.Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(2)
	}

	setupLog(opts.Dbg, opts.Token, opts.Server.AuthPasswd)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		// catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := execute(ctx, opts); err != nil {
		var loadErr *config.ConfigLoadError
		var tblErr *config.TranslationTableError
		switch {
		case errors.As(err, &tblErr):
			log.Printf("[ERROR] invalid translation table %s: %v", tblErr.Path, tblErr.Err)
		case errors.As(err, &loadErr):
			log.Printf("[ERROR] invalid config %s: %v", loadErr.Path, loadErr.Err)
		default:
			log.Printf("[ERROR] %v", err)
		}
		os.Exit(1)
	}
	log.Printf("[INFO] modbot stopped")
}

func execute(ctx context.Context, opts options) error {
	if opts.Dry {
		log.Print("[WARN] dry mode, no actual removals")
	}

	catalogs, info, err := loadCatalogs(ctx, opts)
	if err != nil {
		return err
	}
	detector, err := catalogs.Detector()
	if err != nil {
		return fmt.Errorf("can't make detector, %w", err)
	}
	moderator := bot.NewModerator(detector, catalogs.Options)
	log.Printf("[INFO] %s, catalogs from %s: triggers %d, translations %d", moderator, info.Source, info.Triggers,
		info.Translations)

	removalWr, err := makeRemovalLogWriter(opts)
	if err != nil {
		return fmt.Errorf("can't make removal log writer, %w", err)
	}
	defer removalWr.Close()

	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return fmt.Errorf("can't make discord session, %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	if opts.Server.Enabled {
		srv := server.NewServer(server.Config{
			Version:    revision,
			ListenAddr: opts.Server.ListenAddr,
			Checker:    moderator,
			Catalog:    info,
			AuthPasswd: opts.Server.AuthPasswd,
			Dry:        opts.Dry,
		})
		go func() {
			if err := srv.Run(ctx); err != nil {
				log.Printf("[ERROR] api server failed, %v", err)
			}
		}()
	}

	listener := events.DiscordListener{
		API:             session,
		RemovalLogger:   makeRemovalLogger(removalWr),
		Bot:             moderator,
		Dry:             opts.Dry,
		ChannelCacheTTL: opts.ChannelCacheTTL,
	}
	if err := listener.Do(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("discord listener failed, %w", err)
	}
	return nil
}

// loadCatalogs reads catalogs from files or from the database if db url set.
// With db import enabled files are loaded first and replace the stored catalogs.
func loadCatalogs(ctx context.Context, opts options) (config.Catalogs, server.Info, error) {
	files := config.Files{
		Options:     resolvePath(opts.Args.ConfigDir, opts.Options),
		Pairs:       resolvePath(opts.Args.ConfigDir, opts.Pairs),
		Translation: resolvePath(opts.Args.ConfigDir, opts.Translation),
	}

	if opts.DB == "" {
		log.Printf("[DEBUG] catalog files: %+v", files)
		res, err := config.LoadCatalogs(files)
		if err != nil {
			return config.Catalogs{}, server.Info{}, err
		}
		return res, catalogInfo("files", res), nil
	}

	store, err := storage.Open(ctx, opts.DB, opts.GID)
	if err != nil {
		return config.Catalogs{}, server.Info{}, err
	}
	defer store.Close()

	if opts.DBImport {
		fromFiles, err := config.LoadCatalogs(files)
		if err != nil {
			return config.Catalogs{}, server.Info{}, err
		}
		stats, err := store.Import(ctx, fromFiles)
		if err != nil {
			return config.Catalogs{}, server.Info{}, fmt.Errorf("can't import catalogs, %w", err)
		}
		log.Printf("[INFO] imported catalogs to %s, %s", store.Type(), stats)
	}

	res, err := store.Load(ctx)
	if err != nil {
		return config.Catalogs{}, server.Info{}, fmt.Errorf("can't load catalogs from db, %w", err)
	}
	stats, err := store.Stats(ctx)
	if err != nil {
		return config.Catalogs{}, server.Info{}, fmt.Errorf("can't get catalog stats, %w", err)
	}
	if len(res.Pairs) == 0 {
		log.Printf("[WARN] no restricted pairs stored for group %q, nothing will be removed", opts.GID)
	}
	info := catalogInfo(string(store.Type()), res)
	info.UpdatedAt = stats.UpdatedAt
	if !stats.UpdatedAt.IsZero() {
		log.Printf("[INFO] catalogs of group %q in db, %s, imported %s", opts.GID, stats, stats.UpdatedAt.Format(time.RFC3339))
	}
	return res, info, nil
}

func catalogInfo(source string, c config.Catalogs) server.Info {
	return server.Info{Source: source, Triggers: len(c.Pairs), Translations: len(c.Translation), Threshold: c.Options.Threshold}
}

// resolvePath makes relative file path relative to the config directory
func resolvePath(dir, file string) string {
	if dir == "" || file == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

// makeRemovalLogger creates logger to keep records about removed messages,
// one line per removal: 2024-05-11 19:35:55,123 - INFO - Removed a message from "john": "text" | 2
func makeRemovalLogger(wr io.Writer) events.RemovalLogger {
	return events.RemovalLoggerFunc(func(msg *bot.Message, response *bot.Response) {
		text := strings.TrimSpace(strings.ReplaceAll(msg.Text, "\n", " "))
		log.Printf("[INFO] removed message %s from %s, trigger %q, count %d", msg.ID, bot.Author(*msg), response.Trigger,
			response.Count)
		ts := strings.Replace(time.Now().Format("2006-01-02 15:04:05.000"), ".", ",", 1)
		line := fmt.Sprintf("%s - INFO - Removed a message from \"%s\": \"%s\" | %d\n", ts, bot.Author(*msg), text, response.Count)
		if _, err := io.WriteString(wr, line); err != nil {
			log.Printf("[WARN] can't write to removal log, %v", err)
		}
	})
}

// makeRemovalLogWriter creates removal log writer, lumberjack logger with rotation if enabled, stdout otherwise
func makeRemovalLogWriter(opts options) (io.WriteCloser, error) {
	if !opts.Logger.Enabled {
		return nopWriteCloser{os.Stdout}, nil
	}

	maxSize, err := sizeParse(opts.Logger.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("can't parse logger MaxSize: %w", err)
	}
	maxSize /= 1048576

	log.Printf("[INFO] removal log enabled for %s, max size %dM", opts.Logger.FileName, maxSize)
	return &lumberjack.Logger{
		Filename:   opts.Logger.FileName,
		MaxSize:    int(maxSize), // in MB
		MaxBackups: opts.Logger.MaxBackups,
		Compress:   true,
		LocalTime:  true,
	}, nil
}

// sizeParse parses size with optional k, m, g, t suffix
func sizeParse(inp string) (uint64, error) {
	if inp == "" {
		return 0, errors.New("empty value")
	}
	for i, sfx := range []string{"k", "m", "g", "t"} {
		if strings.HasSuffix(strings.ToLower(inp), sfx) {
			val, err := strconv.Atoi(inp[:len(inp)-1])
			if err != nil {
				return 0, fmt.Errorf("can't parse %s: %w", inp, err)
			}
			return uint64(float64(val) * math.Pow(float64(1024), float64(i+1))), nil
		}
	}
	return strconv.ParseUint(inp, 10, 64)
}

type nopWriteCloser struct{ io.Writer }

func (n nopWriteCloser) Close() error { return nil }

func setupLog(dbg bool, secrets ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))

	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) > 0 {
		logOpts = append(logOpts, lgr.Secret(nonEmpty...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
