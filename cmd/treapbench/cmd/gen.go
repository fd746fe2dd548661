package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Hakuto4838/Treap.git/workload"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(NewGenCommand())
}

// parseScientificNotation 解析科學記號字串（如 "1e5"）為整數
func parseScientificNotation(s string) (int, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %q", s)
	}
	return int(f), nil
}

func NewGenCommand() *cobra.Command {

	var profileFile string
	var nStr, opsStr string
	var out, path string
	var nums int
	p := workload.DefaultProfile()

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate bench files from a workload profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {

			profile := workload.DefaultProfile()
			if profileFile != "" {
				var err error
				profile, err = workload.LoadProfile(profileFile)
				if err != nil {
					return err
				}
			}

			// 命令列有指定的欄位覆蓋 profile
			flags := cmd.Flags()
			if flags.Changed("keys") {
				n, err := parseScientificNotation(nStr)
				if err != nil {
					return err
				}
				profile.N = n
			}
			if flags.Changed("ops") {
				ops, err := parseScientificNotation(opsStr)
				if err != nil {
					return err
				}
				profile.Ops = ops
			}
			if flags.Changed("zipf-s") {
				profile.S = p.S
			}
			if flags.Changed("zipf-v") {
				profile.V = p.V
			}
			if flags.Changed("seed") {
				profile.Seed = p.Seed
			}
			if flags.Changed("phase1-ratio") {
				profile.Phase1Ratio = p.Phase1Ratio
			}
			if flags.Changed("delete-ratio") {
				profile.DeleteRatio = p.DeleteRatio
			}
			if flags.Changed("ordered-ratio") {
				profile.OrderedRatio = p.OrderedRatio
			}
			if flags.Changed("simple-keys") {
				profile.SimpleKeys = p.SimpleKeys
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			if nums < 1 {
				return errors.Newf("invalid --nums: %d", nums)
			}
			if out != "" && nums > 1 {
				return errors.New("--out can only be used with --nums 1")
			}
			if path != "" {
				if err := os.MkdirAll(path, 0755); err != nil {
					return errors.Wrapf(err, "create %s", path)
				}
			}

			for i := 0; i < nums; i++ {
				fp := profile
				fp.Seed = profile.Seed + uint64(i)

				name := out
				if name == "" {
					name = fp.FileName() + ".bin"
					if nums > 1 {
						name = fmt.Sprintf("%s_%d.bin", fp.FileName(), i)
					}
				}
				name = filepath.Join(path, name)

				bf, err := workload.WriteBenchFile(fp, name)
				if err != nil {
					return errors.Wrapf(err, "generate bench file %d", i)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "generated %s (keys: %d, ops: %d, entropy: %.6f)\n",
					name, len(bf.Dist), len(bf.Ops), bf.Entropy())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profileFile, "profile", "", "YAML workload profile")
	cmd.Flags().StringVarP(&nStr, "keys", "n", "1e3", "number of keys (supports scientific notation, e.g. 1e5)")
	cmd.Flags().StringVarP(&opsStr, "ops", "k", "1e5", "number of operations (supports scientific notation)")
	cmd.Flags().Float64VarP(&p.S, "zipf-s", "a", p.S, "Zipf exponent, 0 for uniform")
	cmd.Flags().Float64VarP(&p.V, "zipf-v", "b", p.V, "Zipf offset")
	cmd.Flags().Uint64Var(&p.Seed, "seed", p.Seed, "generator seed")
	cmd.Flags().Float64Var(&p.Phase1Ratio, "phase1-ratio", p.Phase1Ratio, "ratio of phase1 operations")
	cmd.Flags().Float64Var(&p.DeleteRatio, "delete-ratio", p.DeleteRatio, "ratio of delete operations")
	cmd.Flags().Float64Var(&p.OrderedRatio, "ordered-ratio", p.OrderedRatio, "ratio of floor/ceiling/higher/lower operations")
	cmd.Flags().BoolVar(&p.SimpleKeys, "simple-keys", p.SimpleKeys, "use keys 0..n-1 instead of random uint32")
	cmd.Flags().IntVar(&nums, "nums", 1, "number of files to generate (seed increments per file)")
	cmd.Flags().StringVar(&path, "path", "", "output directory")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file name (default derived from parameters)")

	return cmd
}
