package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/Vicathor/PM-ABMS/internal/config"
	"github.com/Vicathor/PM-ABMS/internal/export"
	"github.com/Vicathor/PM-ABMS/internal/match"
	"github.com/Vicathor/PM-ABMS/internal/util"
	"github.com/Vicathor/PM-ABMS/pkg/logger"
)

func main() {
	var cfgPath, csvOut, xesOut, summaryOut string
	var seed int64
	var n, workers int
	flag.StringVar(&cfgPath, "config", "", "optional YAML config file")
	flag.StringVar(&csvOut, "csv", "match_events.csv", "CSV trace output (single run)")
	flag.StringVar(&xesOut, "xes", "match_events.xes", "XES trace output (single run)")
	flag.StringVar(&summaryOut, "out", "summary.json", "summary output file")
	flag.Int64Var(&seed, "seed", 12345, "random seed")
	flag.IntVar(&n, "n", 1, "number of matches to simulate")
	flag.IntVar(&workers, "workers", 8, "parallel workers in batch mode")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	tables, err := config.LoadTables(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "tables:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if n <= 1 {
		runSingle(cfg, tables, seed, csvOut, xesOut, summaryOut, log)
		return
	}
	runBatch(cfg, tables, seed, n, workers, summaryOut, log)
}

func runSingle(cfg *config.Config, tables *config.Tables, seed int64, csvOut, xesOut, summaryOut string, log logger.Logger) {
	m, err := match.New(cfg, tables, seed, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "match:", err)
		os.Exit(1)
	}
	res := m.Run()

	if err := export.SaveCSV(csvOut, res.Events); err != nil {
		fmt.Fprintln(os.Stderr, "csv:", err)
		os.Exit(1)
	}
	if err := export.SaveXES(xesOut, res.Events); err != nil {
		fmt.Fprintln(os.Stderr, "xes:", err)
		os.Exit(1)
	}

	summary := map[string]any{
		"run_id":      uuid.New().String(),
		"seed":        res.Seed,
		"score":       res.Score,
		"reason":      res.Reason,
		"ticks":       res.Ticks,
		"duration_s":  res.Duration,
		"possessions": len(res.Cases),
		"kpis":        export.Summarize(res.Events),
		"sequences":   export.Sequences(res.Events),
	}
	if err := os.WriteFile(summaryOut, marshalPretty(summary), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "summary:", err)
		os.Exit(1)
	}
	fmt.Printf("Match finished %d-%d (%s) after %.1fs, %d events -> %s, %s\n",
		res.Score[0], res.Score[1], res.Reason, res.Duration, len(res.Events), csvOut, xesOut)
}

func runBatch(cfg *config.Config, tables *config.Tables, seed int64, n, workers int, summaryOut string, log logger.Logger) {
	type agg struct {
		Goals     [2]int
		Reasons   map[string]int
		Events    int
		Cases     int
		Durations float64
	}
	st := agg{Reasons: map[string]int{}}
	var mu sync.Mutex
	var wg sync.WaitGroup

	jobs := make(chan int, n)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				runSeed := util.DeriveSeed(seed, workerID, i)
				m, err := match.New(cfg, tables, runSeed, logger.Nop())
				if err != nil {
					log.Error("batch run construction failed", logger.Error(err))
					continue
				}
				res := m.Run()

				mu.Lock()
				st.Goals[0] += res.Score[0]
				st.Goals[1] += res.Score[1]
				st.Reasons[res.Reason]++
				st.Events += len(res.Events)
				st.Cases += len(res.Cases)
				st.Durations += res.Duration
				mu.Unlock()
			}
		}(w)
	}
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := map[string]any{
		"batch_id":          uuid.New().String(),
		"runs":              n,
		"base_seed":         seed,
		"avg_duration_s":    st.Durations / float64(n),
		"avg_events":        float64(st.Events) / float64(n),
		"avg_possessions":   float64(st.Cases) / float64(n),
		"goals_per_team":    st.Goals,
		"termination_count": st.Reasons,
	}
	if err := os.WriteFile(summaryOut, marshalPretty(summary), 0644); err != nil {
		fmt.Fprintln(os.Stderr, "summary:", err)
		os.Exit(1)
	}
	fmt.Printf("Batch %d done -> %s\n", n, summaryOut)
}

func marshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
