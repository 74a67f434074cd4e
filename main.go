package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hfoster/opq/pkg/auth"
	"github.com/hfoster/opq/pkg/brief"
	"github.com/hfoster/opq/pkg/config"
	"github.com/hfoster/opq/pkg/delegate"
	"github.com/hfoster/opq/pkg/google"
	"github.com/hfoster/opq/pkg/queue"
	"github.com/hfoster/opq/pkg/roster"
	"github.com/hfoster/opq/pkg/snapshot"
	"github.com/hfoster/opq/pkg/util"
	"github.com/hfoster/opq/pkg/waiting"
)

func main() {
	// 1. Parse Flags
	doAuth := flag.Bool("auth", false, "Authenticate with Google")
	doCollect := flag.Bool("collect", false, "Fetch all surfaces and write snapshots")
	doRender := flag.Bool("render", false, "Render the operator queue from snapshots")
	doBrief := flag.Bool("brief", false, "Render the scored task brief from snapshots")
	outPath := flag.String("out", "", "Output file (overrides config; - for stdout)")
	todayFlag := flag.String("today", "", "Scoring reference date YYYY-MM-DD (defaults to now)")
	setOperator := flag.String("set-operator", "", "Set the operator display name used for chat mentions")
	flag.Parse()

	// 2. Handle Set Operator
	if *setOperator != "" {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
		cfg.Operator = *setOperator
		if err := config.Save(cfg); err != nil {
			log.Fatalf("Error saving config: %v", err)
		}
		fmt.Printf("Operator set to: %s\n", *setOperator)
		return
	}

	// 3. Handle Authentication
	if *doAuth {
		ctx := context.Background()
		configDir, err := auth.GetXdgHome()
		if err != nil {
			log.Fatalf("could not find path to configuration directory: %v", err)
		}

		tokenFile := filepath.Join(configDir, auth.TokenFile)
		if _, err := os.Stat(tokenFile); err == nil {
			log.Printf("Removing existing token file at '%s'", tokenFile)
			if err := os.Remove(tokenFile); err != nil {
				log.Fatalf("could not delete token file '%s': %v. Please delete it manually", tokenFile, err)
			}
		}

		if _, err := auth.GetClient(ctx, auth.Scopes); err != nil {
			log.Fatalf("Authentication failed: %v", err)
		}
		log.Printf("Authentication successful! Token saved to %s", auth.TokenFile)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	today := time.Now()
	if *todayFlag != "" {
		t, ok := util.ParseDate(*todayFlag)
		if !ok {
			log.Fatalf("invalid --today value %q, want YYYY-MM-DD", *todayFlag)
		}
		today = t
	}

	// Modes combine: --collect --render fetches then renders. With no
	// mode flag at all, render is the default.
	ran := false
	if *doCollect {
		if err := collect(cfg, today); err != nil {
			log.Fatalf("Collection failed: %v", err)
		}
		ran = true
	}
	if *doBrief {
		if err := renderBrief(cfg, *outPath, today); err != nil {
			log.Fatalf("Brief failed: %v", err)
		}
		ran = true
	}
	if *doRender || !ran {
		if err := renderQueue(cfg, *outPath, today); err != nil {
			log.Fatalf("Render failed: %v", err)
		}
	}
}

// collect fetches all four surfaces in parallel and writes one snapshot per
// surface. Any surface failing fails the run; a partial snapshot set would
// render a misleading queue.
func collect(cfg *config.Config, now time.Time) error {
	ctx := context.Background()

	srv, err := google.NewServices(ctx)
	if err != nil {
		return err
	}
	store, err := snapshot.NewStore()
	if err != nil {
		return err
	}

	var (
		chatSnap  map[string]queue.ChatSpace
		events    []queue.Event
		threads   []queue.Thread
		taskItems []queue.TaskItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chatSnap, err = google.CollectChat(gctx, srv.Chat)
		return err
	})
	g.Go(func() error {
		var err error
		events, err = google.CollectCalendar(srv.Calendar, now)
		return err
	})
	g.Go(func() error {
		var err error
		threads, err = google.CollectGmail(gctx, srv.Gmail)
		return err
	})
	g.Go(func() error {
		var err error
		taskItems, err = google.CollectTasks(gctx, srv.Tasks)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	taskItems, err = stampWaiting(taskItems, now)
	if err != nil {
		log.Printf("Warning: waiting table unavailable: %v", err)
	}

	if err := store.SaveChat(chatSnap); err != nil {
		return err
	}
	if err := store.SaveCalendar(events); err != nil {
		return err
	}
	if err := store.SaveGmail(threads); err != nil {
		return err
	}
	if err := store.SaveTasks(taskItems); err != nil {
		return err
	}

	log.Printf("Collected: chat spaces=%d calendar=%d gmail=%d tasks=%d",
		len(chatSnap), len(events), len(threads), len(taskItems))
	return nil
}

// stampWaiting fills in waiting_since for waiting tasks from the local
// waiting table and prunes tasks that left waiting status.
func stampWaiting(items []queue.TaskItem, now time.Time) ([]queue.TaskItem, error) {
	table, err := waiting.NewTable()
	if err != nil {
		return items, err
	}
	for i := range items {
		it := &items[i]
		if it.Status == "waiting" {
			since := table.Mark(it.ID, it.Title, now)
			if it.WaitingSince == "" {
				it.WaitingSince = since.Format("2006-01-02")
			}
		} else {
			table.Clear(it.ID)
		}
	}
	if err := table.Save(); err != nil {
		log.Printf("Warning: failed to save waiting table: %v", err)
	}
	return items, nil
}

func renderQueue(cfg *config.Config, outPath string, now time.Time) error {
	store, err := snapshot.NewStore()
	if err != nil {
		return err
	}
	snaps, err := store.LoadAll()
	if err != nil {
		return err
	}

	opts := queue.ViewOptions{
		Mentions:        cfg.Mentions(),
		GmailDisplayCap: cfg.GmailCap,
		GeneratedAt:     now,
		RunID:           uuid.NewString(),
	}

	if outPath == "" {
		outPath = cfg.OutPath
	}
	if outPath == "-" {
		fmt.Print(queue.BuildOperatorView(snaps, opts))
		return nil
	}
	if err := queue.WriteOperatorView(outPath, snaps, opts); err != nil {
		return err
	}
	log.Printf("Operator queue written to %s", outPath)
	return nil
}

func renderBrief(cfg *config.Config, outPath string, today time.Time) error {
	store, err := snapshot.NewStore()
	if err != nil {
		return err
	}
	items, err := store.LoadTasks()
	if err != nil {
		return err
	}

	rosterPath, err := roster.DefaultPath()
	if err != nil {
		return err
	}
	r, err := roster.Load(rosterPath)
	if err != nil {
		return err
	}

	items = brief.Enrich(items, delegate.New(r), today)

	if outPath == "" {
		outPath = "priority-brief.md"
	}
	if outPath == "-" {
		fmt.Print(brief.Build(items, today))
		return nil
	}
	if err := brief.Write(outPath, items, today); err != nil {
		return err
	}
	log.Printf("Priority brief written to %s", outPath)
	return nil
}
