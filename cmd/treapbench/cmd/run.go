package cmd

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/Hakuto4838/Treap.git/ordset/analytool"
	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(NewRunCommand())
}

type benchStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64 // 取自第一次執行，非 Analyable 時為 NaN
}

func NewRunCommand() *cobra.Command {

	var file, dir, impls string
	var runs int
	var seed uint64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Replay bench files on each implementation and report timings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			paths, err := collectBenchFiles(file, dir)
			if err != nil {
				return err
			}
			toRun, err := parseImpls(impls)
			if err != nil {
				return err
			}
			if runs < 1 {
				return errors.Newf("invalid --runs: %d", runs)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "implementations to test: %s\n", strings.Join(toRun, ","))
			fmt.Fprintln(w, strings.Repeat("=", 80))

			if len(paths) > 1 {
				return runBatchBenchmark(w, paths, toRun, runs, seed)
			}
			return runBenchmark(w, paths[0], toRun, runs, seed)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "bench file (TRBENCH2 format)")
	cmd.Flags().StringVar(&dir, "dir", "", "directory containing bench files (all .bin files are tested)")
	cmd.Flags().StringVar(&impls, "impl", "all", "implementations to run: all or comma list (treap,skiplist)")
	cmd.Flags().IntVar(&runs, "runs", 5, "how many times to repeat each benchmark")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for the structures under test")

	return cmd
}

// runBenchmark 執行單一 bench 檔並輸出詳細結果
func runBenchmark(w io.Writer, benchPath string, toRun []string, runs int, seed uint64) error {
	bf, err := workload.ReadBenchFile(benchPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "bench_file: %s\n", benchPath)
	fmt.Fprintf(w, "ops: %d\n", len(bf.Ops))
	fmt.Fprintf(w, "entropy: %.6f\n", bf.Entropy())

	rows := make([][]string, 0, len(toRun))
	for _, impl := range toRun {
		log.Infof("benchmarking %s", impl)
		stats, err := benchmarkImpl(bf, impl, runs, seed)
		if err != nil {
			return err
		}
		rows = append(rows, []string{
			impl,
			fmt.Sprintf("%d", runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", throughput(len(bf.Ops), stats.avgMs)),
			formatSteps(stats.avgSteps),
		})
	}

	renderTable(w, []string{"Impl", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps"}, rows)
	return nil
}

// runBatchBenchmark 對多個 bench 檔執行並匯總統計，讀取失敗的檔案略過
func runBatchBenchmark(w io.Writer, benchPaths []string, toRun []string, runs int, seed uint64) error {
	fmt.Fprintf(w, "Testing %d benchmark files...\n\n", len(benchPaths))

	type implStats struct {
		avgMsList []float64
		minMsList []float64
		maxMsList []float64
		opsList   []int
		stepsList []float64
		totalRuns int
	}

	allStats := make(map[string]*implStats, len(toRun))
	for _, impl := range toRun {
		allStats[impl] = &implStats{}
	}

	for idx, benchPath := range benchPaths {
		fmt.Fprintf(w, "[%d/%d] Testing: %s\n", idx+1, len(benchPaths), filepath.Base(benchPath))

		bf, err := workload.ReadBenchFile(benchPath)
		if err != nil {
			log.Errorf("skip %s: %v", benchPath, err)
			continue
		}
		fmt.Fprintf(w, "  ops: %d, entropy: %.6f\n", len(bf.Ops), bf.Entropy())

		for _, impl := range toRun {
			stats, err := benchmarkImpl(bf, impl, runs, seed)
			if err != nil {
				return err
			}
			s := allStats[impl]
			s.avgMsList = append(s.avgMsList, stats.avgMs)
			s.minMsList = append(s.minMsList, stats.minMs)
			s.maxMsList = append(s.maxMsList, stats.maxMs)
			s.opsList = append(s.opsList, len(bf.Ops))
			if !math.IsNaN(stats.avgSteps) {
				s.stepsList = append(s.stepsList, stats.avgSteps)
			}
			s.totalRuns += runs
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 80))
	fmt.Fprintln(w, "AGGREGATE STATISTICS (across all benchmark files)")
	fmt.Fprintln(w, strings.Repeat("=", 80))

	rows := make([][]string, 0, len(toRun))
	for _, impl := range toRun {
		s := allStats[impl]
		if len(s.avgMsList) == 0 {
			continue
		}

		totalOps := 0
		totalSec := 0.0
		for i, ops := range s.opsList {
			totalOps += ops
			totalSec += s.avgMsList[i] / 1000.0
		}
		steps := math.NaN()
		if len(s.stepsList) > 0 {
			steps = average(s.stepsList)
		}

		rows = append(rows, []string{
			impl,
			fmt.Sprintf("%d", s.totalRuns),
			fmt.Sprintf("%.3f", average(s.avgMsList)),
			fmt.Sprintf("%.3f", slices.Min(s.minMsList)),
			fmt.Sprintf("%.3f", slices.Max(s.maxMsList)),
			fmt.Sprintf("%.2f", throughput(totalOps, totalSec*1000.0)),
			formatSteps(steps),
		})
	}
	if len(rows) == 0 {
		return errors.New("no bench file could be read")
	}

	renderTable(w, []string{"Impl", "Total Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Avg Ops/s", "AvgSteps"}, rows)
	return nil
}

func benchmarkImpl(bf *workload.BenchFile, impl string, runs int, seed uint64) (benchStats, error) {
	durations := make([]float64, 0, runs)
	sampleSteps := math.NaN()
	for i := 0; i < runs; i++ {
		set, err := newImpl(impl, seed+uint64(i))
		if err != nil {
			return benchStats{}, err
		}
		elapsed, err := runOpsAndTime(set, bf)
		if err != nil {
			return benchStats{}, errors.Wrapf(err, "%s run %d", impl, i)
		}
		durations = append(durations, float64(elapsed.Microseconds())/1000.0)
		if math.IsNaN(sampleSteps) {
			if analy, ok := set.(ordset.Analyable[ordset.K]); ok {
				sampleSteps, _ = analytool.AnalyzeStep(analy, bf.Dist)
			}
		}
	}
	slices.Sort(durations)
	return benchStats{
		avgMs:    average(durations),
		minMs:    durations[0],
		maxMs:    durations[len(durations)-1],
		avgSteps: sampleSteps,
	}, nil
}

func runOpsAndTime(set ordset.OrderedSet[ordset.K], bf *workload.BenchFile) (time.Duration, error) {
	start := time.Now()
	for _, op := range bf.Ops {
		if _, err := workload.Apply(set, op); err != nil {
			return 0, err
		}
	}
	return time.Since(start), nil
}

func throughput(ops int, ms float64) float64 {
	if ms <= 0 {
		return math.Inf(1)
	}
	return float64(ops) / (ms / 1000.0)
}

func formatSteps(steps float64) string {
	if math.IsNaN(steps) {
		return "N/A"
	}
	return fmt.Sprintf("%.6f", steps)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
}
