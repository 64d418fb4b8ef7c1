package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/swelljoe/wthr-widget/internal/config"
	"github.com/swelljoe/wthr-widget/internal/db"
	"github.com/swelljoe/wthr-widget/internal/display"
	"github.com/swelljoe/wthr-widget/internal/recent"
	"github.com/swelljoe/wthr-widget/internal/session"
	"github.com/swelljoe/wthr-widget/internal/weather"
)

// scope is the storage scope of the terminal client's recent list
const scope = "cli"

func main() {
	fahrenheit := flag.Bool("f", false, "show temperatures in Fahrenheit")
	watch := flag.Bool("watch", false, "keep the city's local clock running until interrupted")
	showRecent := flag.Bool("recent", false, "list recent searches")
	clearRecent := flag.Bool("clear", false, "clear recent searches")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wthr-cli [-f] [-watch] [-recent] [-clear] [city]")
		fmt.Fprintln(os.Stderr, "Examples: wthr-cli London")
		fmt.Fprintln(os.Stderr, "          wthr-cli -f \"New York\"")
		fmt.Fprintln(os.Stderr, "          wthr-cli -watch Tokyo")
		flag.PrintDefaults()
	}
	flag.Parse()

	city := strings.Join(flag.Args(), " ")
	if city == "" && !*showRecent && !*clearRecent {
		flag.Usage()
		os.Exit(2)
	}

	err := run(city, *fahrenheit, *watch, *showRecent, *clearRecent)
	if errors.Is(err, weather.ErrCityNotFound) {
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(city string, fahrenheit, watch, showRecent, clearRecent bool) error {
	cfg, err := config.Load(os.Getenv("WTHR_CONFIG"))
	if err != nil {
		return err
	}

	var store recent.Store = recent.NewMemoryStore()
	database, err := db.Open(cfg.Database.URL, cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: recent searches will not persist: %v\n", err)
	} else {
		defer database.Close()
		store = database
	}

	surface := display.NewMemorySurface()
	client := weather.NewClient(cfg.OpenWeather.BaseURL, cfg.OpenWeather.APIKey)
	sess := session.New(client, surface, recent.New(store, scope, cfg.RecentLimit))
	if err := sess.Init(); err != nil {
		return fmt.Errorf("failed to load recent searches: %w", err)
	}

	if clearRecent {
		if err := sess.ClearRecents(); err != nil {
			return fmt.Errorf("failed to clear recent searches: %w", err)
		}
		fmt.Println("Recent searches cleared.")
	}
	if showRecent {
		names := surface.View().Recent
		if len(names) == 0 {
			fmt.Println("No recent searches.")
		}
		for i, name := range names {
			fmt.Printf("%2d. %s\n", i+1, name)
		}
	}
	if city == "" {
		return nil
	}

	if fahrenheit {
		sess.ToggleUnit()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sess.Search(ctx, city)
	if werr := display.WriteText(os.Stdout, surface.View()); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}

	if watch {
		return watchClock(ctx, os.Stdout, sess, surface, time.Second)
	}
	return nil
}

// watchClock redraws the clock line every interval until ctx ends or a
// write fails.
func watchClock(ctx context.Context, w io.Writer, sess *session.Session, surface *display.MemorySurface, interval time.Duration) error {
	fmt.Fprintln(w)
	if err := display.WriteClock(w, surface.View()); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var werr error
	sess.RunClock(ctx, interval, func() {
		if err := display.WriteClock(w, surface.View()); err != nil {
			werr = err
			cancel()
		}
	})
	fmt.Fprintln(w)
	return werr
}
