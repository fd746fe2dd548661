package workload

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Profile 產生 bench 檔所需的參數，可由 YAML 載入
type Profile struct {
	// N key 數量
	N int `yaml:"n"`
	// S、V 為 Zipf 參數，S 為 0 時使用均勻分布
	S    float64 `yaml:"s"`
	V    float64 `yaml:"v"`
	Seed uint64  `yaml:"seed"`
	// Ops 操作總數，需 >= N
	Ops int `yaml:"ops"`
	// Phase1Ratio 第一階段（保證每個 key 至少出現一次）佔的比例
	Phase1Ratio float64 `yaml:"phase1_ratio"`
	DeleteRatio float64 `yaml:"delete_ratio"`
	// OrderedRatio 對已存在的 key 改做 floor/ceiling/higher/lower 的比例
	OrderedRatio float64 `yaml:"ordered_ratio"`
	// SimpleKeys 為 true 時 key 為 0..n-1，否則為不重複的隨機 uint32
	SimpleKeys bool `yaml:"simple_keys"`
}

// DefaultProfile 預設參數
func DefaultProfile() Profile {
	return Profile{
		N:            1000,
		S:            1.07,
		V:            1.0,
		Seed:         42,
		Ops:          100000,
		Phase1Ratio:  0.5,
		DeleteRatio:  0.1,
		OrderedRatio: 0.2,
	}
}

// LoadProfile 讀取 YAML，未指定的欄位沿用 DefaultProfile
func LoadProfile(filename string) (Profile, error) {
	p := DefaultProfile()
	data, err := os.ReadFile(filename)
	if err != nil {
		return p, errors.Wrapf(err, "read profile %s", filename)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "parse profile %s", filename)
	}
	if err := p.Validate(); err != nil {
		return p, errors.Wrapf(err, "profile %s", filename)
	}
	return p, nil
}

// Save 以 YAML 寫出
func (p Profile) Save(filename string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "marshal profile")
	}
	return errors.Wrapf(os.WriteFile(filename, data, 0644), "write profile %s", filename)
}

func (p Profile) phase1Size() int {
	return int(float64(p.Ops) * p.Phase1Ratio)
}

// Validate 檢查參數範圍
func (p Profile) Validate() error {
	if p.N <= 0 {
		return errors.Newf("invalid n: %d", p.N)
	}
	if p.S != 0 && (p.S <= 1.0 || p.V < 1.0) {
		return errors.Newf("invalid zipf params: s=%v must >1, v=%v must >=1", p.S, p.V)
	}
	if p.Ops < p.N {
		return errors.Newf("ops (%d) must be >= n (%d) to ensure each key appears at least once", p.Ops, p.N)
	}
	if size := p.phase1Size(); size < p.N || size > p.Ops {
		return errors.Newf("phase1 size (%d) must satisfy n <= phase1 <= ops", size)
	}
	for name, r := range map[string]float64{
		"delete_ratio":  p.DeleteRatio,
		"ordered_ratio": p.OrderedRatio,
	} {
		if r < 0.0 || r > 1.0 {
			return errors.Newf("%s (%v) must be between 0.0 and 1.0", name, r)
		}
	}
	return nil
}

// FileName 依參數產生檔名（不含副檔名）
func (p Profile) FileName() string {
	return fmt.Sprintf("bench_n%s_k%s_a%s_b%s_p1r%s_dr%s",
		formatScientific(p.N),
		formatScientific(p.Ops),
		formatDecimal(p.S),
		formatDecimal(p.V),
		formatDecimal(p.Phase1Ratio),
		formatDecimal(p.DeleteRatio))
}

// formatScientific 將整數格式化為科學記號，例如 100000 -> 1e5
func formatScientific(n int) string {
	if n == 0 {
		return "0"
	}
	exp := 0
	divisor := 1
	for n/divisor >= 10 {
		divisor *= 10
		exp++
	}
	coefficient := float64(n) / float64(divisor)
	if coefficient == float64(int(coefficient)) {
		return fmt.Sprintf("%de%d", int(coefficient), exp)
	}
	return fmt.Sprintf("%.1fe%d", coefficient, exp)
}

// formatDecimal 保留兩位小數，小數點以底線取代，例如 1.07 -> 1_07
func formatDecimal(f float64) string {
	val := int(f*100 + 0.5)
	switch {
	case val%100 == 0:
		return fmt.Sprintf("%d", val/100)
	case val%10 == 0:
		return fmt.Sprintf("%d_%d", val/100, (val%100)/10)
	default:
		return fmt.Sprintf("%d_%02d", val/100, val%100)
	}
}
