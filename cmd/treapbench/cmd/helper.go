package cmd

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/Hakuto4838/Treap.git/ordset/basic"
	"github.com/Hakuto4838/Treap.git/ordset/treap"

	"github.com/cockroachdb/errors"
)

var knownImpls = []string{"treap", "skiplist"}

func newImpl(impl string, seed uint64) (ordset.OrderedSet[ordset.K], error) {
	switch impl {
	case "treap":
		return treap.New[ordset.K](treap.WithSeed(seed)), nil
	case "skiplist":
		return basic.NewBasicSkipList[ordset.K](seed), nil
	}
	return nil, errors.Newf("unknown implementation %q", impl)
}

// parseImpls 解析逗號分隔的實作清單，去除重複；"all" 或空字串代表全部
func parseImpls(s string) ([]string, error) {
	if s == "" || s == "all" {
		return knownImpls, nil
	}
	var out []string
	seen := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		t := strings.TrimSpace(strings.ToLower(p))
		if t == "" || seen[t] {
			continue
		}
		if _, err := newImpl(t, 0); err != nil {
			return nil, err
		}
		out = append(out, t)
		seen[t] = true
	}
	if len(out) == 0 {
		return knownImpls, nil
	}
	return out, nil
}

// collectBenchFiles 回傳 file，或 dir 底下所有 .bin 檔（排序後）
func collectBenchFiles(file, dir string) ([]string, error) {
	if dir == "" {
		if file == "" {
			return nil, errors.New("either --file or --dir must be provided")
		}
		return []string{file}, nil
	}

	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scan directory %s", dir)
	}
	if len(files) == 0 {
		return nil, errors.Newf("no .bin files found in directory: %s", dir)
	}
	sort.Strings(files)
	return files, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
