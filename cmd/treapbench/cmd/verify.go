package cmd

import (
	"fmt"
	"io"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/Hakuto4838/Treap.git/ordset/basic"
	"github.com/Hakuto4838/Treap.git/ordset/treap"
	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(NewVerifyCommand())
}

// ErrDiverged treap 與參考實作的結果不一致
var ErrDiverged = errors.New("treap diverged from reference")

type mismatch struct {
	index int
	op    workload.Operation
	got   workload.Result
	want  workload.Result
}

func NewVerifyCommand() *cobra.Command {

	var file string
	var seed uint64
	var checkEvery, maxReport int

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Replay a bench file on the treap and a reference set and compare every result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			if file == "" {
				return errors.New("--file must be provided")
			}
			if checkEvery < 1 {
				return errors.Newf("invalid --check-every: %d", checkEvery)
			}
			bf, err := workload.ReadBenchFile(file)
			if err != nil {
				return err
			}
			return verifyBenchFile(cmd.OutOrStdout(), bf, seed, checkEvery, maxReport)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "bench file (TRBENCH2 format)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "seed for the treap and the reference")
	cmd.Flags().IntVar(&checkEvery, "check-every", 1000, "run the invariant checker every N operations")
	cmd.Flags().IntVar(&maxReport, "max-report", 20, "maximum number of mismatches to list")

	return cmd
}

func verifyBenchFile(w io.Writer, bf *workload.BenchFile, seed uint64, checkEvery, maxReport int) error {
	tr := treap.New[ordset.K](treap.WithSeed(seed))
	ref := basic.NewBasicSkipList[ordset.K](seed)
	model := bf.ToSequenceModel()

	var mismatches []mismatch
	total := 0
	index := 0
	for {
		batch := model.NextN(checkEvery)
		if batch == nil {
			break
		}
		for _, op := range batch {
			got, err := workload.Apply(tr, op)
			if err != nil {
				return errors.Wrapf(err, "treap op %d", index)
			}
			want, err := workload.Apply(ref, op)
			if err != nil {
				return errors.Wrapf(err, "reference op %d", index)
			}
			if got != want {
				total++
				if len(mismatches) < maxReport {
					mismatches = append(mismatches, mismatch{index: index, op: op, got: got, want: want})
				}
			}
			index++
		}

		if err := tr.CheckInvariants(); err != nil {
			return errors.Wrapf(err, "after %d ops", index)
		}
		if tr.Size() != ref.Size() {
			return errors.Wrapf(ErrDiverged, "size %d, reference %d after %d ops", tr.Size(), ref.Size(), index)
		}
		log.Debugf("verified %d/%d ops", index, model.Len())
	}

	nodes, depth := tr.GetMaxStats()
	fmt.Fprintf(w, "ops: %d, final size: %d, height: %d, mismatches: %d\n", index, nodes, depth, total)
	if total == 0 {
		return nil
	}

	rows := make([][]string, 0, len(mismatches))
	for _, m := range mismatches {
		rows = append(rows, []string{
			fmt.Sprintf("%d", m.index),
			m.op.Type.String(),
			fmt.Sprintf("%d", m.op.Key),
			formatResult(m.got),
			formatResult(m.want),
		})
	}
	renderTable(w, []string{"Index", "Op", "Key", "Treap", "Reference"}, rows)
	return errors.Wrapf(ErrDiverged, "%d mismatching results", total)
}

func formatResult(r workload.Result) string {
	if !r.OK {
		return "false"
	}
	return fmt.Sprintf("true (%d)", r.Key)
}
