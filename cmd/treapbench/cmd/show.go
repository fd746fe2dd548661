package cmd

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/Hakuto4838/Treap.git/ordset/analytool"
	"github.com/Hakuto4838/Treap.git/ordset/treap"
	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(NewShowCommand())
}

func NewShowCommand() *cobra.Command {

	var file, csvFile string
	var seed uint64
	var maxDepth, maxNodes, topKeys int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Build a treap from a bench file's inserts and print its shape",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			if file == "" {
				return errors.New("--file must be provided")
			}
			bf, err := workload.ReadBenchFile(file)
			if err != nil {
				return err
			}

			tr := treap.New[ordset.K](treap.WithSeed(seed))
			for _, op := range bf.Ops {
				if op.Type != workload.OpInsert || tr.Contains(op.Key) {
					continue
				}
				if err := tr.Insert(op.Key); err != nil {
					return errors.Wrapf(err, "insert %d", op.Key)
				}
			}
			if err := showTreap(cmd.OutOrStdout(), tr, bf.Dist, maxDepth, maxNodes, topKeys); err != nil {
				return err
			}
			if csvFile != "" {
				return writeTreeCSV(csvFile, tr, bf.Dist, maxDepth)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "bench file (TRBENCH2 format)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "treap seed")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 8, "maximum depth to print")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 64, "maximum number of nodes to print")
	cmd.Flags().StringVar(&csvFile, "csv", "", "also write the tree layout and subtree weights to this CSV file")
	cmd.Flags().IntVar(&topKeys, "top", 10, "number of heaviest keys to list with their search steps")

	return cmd
}

func showTreap(w io.Writer, tr *treap.Treap[ordset.K], dist map[ordset.K]float64, maxDepth, maxNodes, topKeys int) error {
	analytool.PrintDepth[ordset.K](w, tr)
	fmt.Fprintln(w)
	analytool.PrintTree[ordset.K](w, tr, maxDepth, maxNodes)
	fmt.Fprintln(w)

	score, steps := analytool.AnalyzeStep[ordset.K](tr, dist)
	fmt.Fprintf(w, "expected search steps: %.6f\n", score)

	keys := make([]ordset.K, 0, len(steps))
	for k := range steps {
		keys = append(keys, k)
	}
	// 依機率由大到小
	slices.SortFunc(keys, func(a, b ordset.K) int {
		return cmp.Or(cmp.Compare(dist[b], dist[a]), cmp.Compare(a, b))
	})
	rows := make([][]string, 0, topKeys)
	for _, k := range keys[:min(topKeys, len(keys))] {
		rows = append(rows, []string{
			fmt.Sprintf("%d", k),
			fmt.Sprintf("%.6f", dist[k]),
			fmt.Sprintf("%d", steps[k]),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Key", "Weight", "Steps"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	if !analytool.CheckStruct[ordset.K](tr) {
		return errors.WithAssertionFailure(errors.Wrap(treap.ErrCorrupt, "structure check failed"))
	}
	fmt.Fprintln(w, "structure: ok")
	return nil
}

// writeTreeCSV 依序寫出樹的版面與子樹權重
func writeTreeCSV(filename string, tr *treap.Treap[ordset.K], dist map[ordset.K]float64, maxDepth int) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := analytool.PrintTreeToCSV[ordset.K](tr, maxDepth, writer); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	if err := writer.Write([]string{"subtree weight"}); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	if err := analytool.DominationToCSV[ordset.K](writer, tr, dist); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	log.Infof("wrote %s", filename)
	return file.Close()
}
