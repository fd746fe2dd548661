package workload

import (
	"bufio"
	"encoding/binary"
	"io"
	randv2 "math/rand/v2"
	"os"
	"slices"

	"github.com/Hakuto4838/Treap.git/ordset"
	"github.com/cockroachdb/errors"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "TRBENCH2"
// uint16   Version: 2
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次（key 升冪）：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType
//   int64   Key

var (
	benchMagic   = [8]byte{'T', 'R', 'B', 'E', 'N', 'C', 'H', '2'}
	benchVersion = uint16(2)

	// ErrBadFormat 檔案內容不是合法的 bench 檔
	ErrBadFormat = errors.New("invalid bench file")
)

// probeSpread 有序查詢的 probe 與 key 的最大距離
const probeSpread = 2

// BenchFile key 分布與操作序列
type BenchFile struct {
	Dist map[ordset.K]float64
	Ops  []Operation
}

// Generate 依 profile 產生 workload。
// 第一階段保證每個 key 至少出現一次（其餘以分布補齊後洗牌），第二階段依分布抽樣。
// 每個 key：不在表中時 Insert；在表中時依 DeleteRatio Delete，
// 其餘依 OrderedRatio 做有序查詢（probe 為 key 附近的值），否則 Query。
func Generate(p Profile) (*BenchFile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := randv2.New(randv2.NewPCG(p.Seed, 0))

	// rank -> key 的隨機對應（不重複）
	rankToKey := make([]ordset.K, p.N)
	if p.SimpleKeys {
		for i := range rankToKey {
			rankToKey[i] = ordset.K(i)
		}
		r.Shuffle(len(rankToKey), func(i, j int) { rankToKey[i], rankToKey[j] = rankToKey[j], rankToKey[i] })
	} else {
		check := make(map[ordset.K]struct{}, p.N)
		for i := range rankToKey {
			key := ordset.K(r.Uint32())
			for _, ok := check[key]; ok; _, ok = check[key] {
				key = ordset.K(r.Uint32())
			}
			rankToKey[i] = key
			check[key] = struct{}{}
		}
	}

	weights := Weights(p.N, p.S, p.V)
	dist := make(map[ordset.K]float64, p.N)
	for rank, key := range rankToKey {
		dist[key] = weights[rank]
	}

	sampler := newSampler(r, p.N, p.S, p.V)
	phase1 := make([]ordset.K, p.phase1Size())
	copy(phase1, rankToKey)
	for i := p.N; i < len(phase1); i++ {
		phase1[i] = rankToKey[sampler.Rank()]
	}
	r.Shuffle(len(phase1), func(i, j int) { phase1[i], phase1[j] = phase1[j], phase1[i] })

	present := make(map[ordset.K]bool, p.N)
	ops := make([]Operation, 0, p.Ops)
	next := func(key ordset.K) Operation {
		if !present[key] {
			present[key] = true
			return Operation{Type: OpInsert, Key: key}
		}
		if r.Float64() < p.DeleteRatio {
			present[key] = false
			return Operation{Type: OpDelete, Key: key}
		}
		if r.Float64() < p.OrderedRatio {
			op := orderedOps[r.IntN(len(orderedOps))]
			probe := key + ordset.K(r.IntN(2*probeSpread+1)-probeSpread)
			return Operation{Type: op, Key: probe}
		}
		return Operation{Type: OpQuery, Key: key}
	}
	for _, key := range phase1 {
		ops = append(ops, next(key))
	}
	for i := len(phase1); i < p.Ops; i++ {
		ops = append(ops, next(rankToKey[sampler.Rank()]))
	}

	log.Debugf("generated %d ops over %d keys (entropy %.4f)", len(ops), p.N, Entropy(dist))
	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// WriteBenchFile 依 profile 產生 workload 並寫入檔案
func WriteBenchFile(p Profile, filename string) (*BenchFile, error) {
	bf, err := Generate(p)
	if err != nil {
		return nil, err
	}
	if err := bf.WriteFile(filename); err != nil {
		return nil, err
	}
	return bf, nil
}

// WriteFile 寫入檔案
func (bf *BenchFile) WriteFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	if err := bf.Encode(file); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	log.Infof("wrote %s: %d keys, %d ops", filename, len(bf.Dist), len(bf.Ops))
	return file.Close()
}

// Encode 以二進位格式輸出，分布依 key 升冪寫出以確保可重現
func (bf *BenchFile) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	le := binary.LittleEndian

	header := []any{benchMagic, benchVersion, uint16(0), uint32(len(bf.Dist))}
	for _, v := range header {
		if err := binary.Write(bw, le, v); err != nil {
			return err
		}
	}

	keys := make([]ordset.K, 0, len(bf.Dist))
	for k := range bf.Dist {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := binary.Write(bw, le, int64(k)); err != nil {
			return err
		}
		if err := binary.Write(bw, le, bf.Dist[k]); err != nil {
			return err
		}
	}

	if err := binary.Write(bw, le, uint64(len(bf.Ops))); err != nil {
		return err
	}
	for _, op := range bf.Ops {
		if err := bw.WriteByte(byte(op.Type)); err != nil {
			return err
		}
		if err := binary.Write(bw, le, int64(op.Key)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadBenchFile 讀取 bench 檔
func ReadBenchFile(filename string) (*BenchFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer fd.Close()

	bf, err := Decode(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	log.Debugf("read %s: %d keys, %d ops", filename, len(bf.Dist), len(bf.Ops))
	return bf, nil
}

// Decode 解析 Encode 的輸出
func Decode(r io.Reader) (*BenchFile, error) {
	br := bufio.NewReader(r)
	le := binary.LittleEndian

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, err
	}
	if magic != benchMagic {
		return nil, errors.Wrapf(ErrBadFormat, "magic %q", magic[:])
	}
	var ver, reserved uint16
	if err := binary.Read(br, le, &ver); err != nil {
		return nil, err
	}
	if ver != benchVersion {
		return nil, errors.Wrapf(ErrBadFormat, "unsupported version %d", ver)
	}
	if err := binary.Read(br, le, &reserved); err != nil {
		return nil, err
	}

	var distCount uint32
	if err := binary.Read(br, le, &distCount); err != nil {
		return nil, err
	}
	dist := make(map[ordset.K]float64, min(distCount, 1<<20))
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := binary.Read(br, le, &key); err != nil {
			return nil, err
		}
		if err := binary.Read(br, le, &weight); err != nil {
			return nil, err
		}
		dist[ordset.K(key)] = weight
	}

	var opCount uint64
	if err := binary.Read(br, le, &opCount); err != nil {
		return nil, err
	}
	ops := make([]Operation, 0, min(opCount, 1<<20))
	for i := uint64(0); i < opCount; i++ {
		t, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		if !OperationType(t).Valid() {
			return nil, errors.Wrapf(ErrBadFormat, "op %d: unknown type %d", i, t)
		}
		var key int64
		if err := binary.Read(br, le, &key); err != nil {
			return nil, err
		}
		ops = append(ops, Operation{Type: OperationType(t), Key: ordset.K(key)})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// ToSequenceModel 將 BenchFile 轉為可重播的 SequenceModel
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	if bf == nil {
		return NewSequenceModel(nil)
	}
	return NewSequenceModel(bf.Ops)
}

// Entropy 分布的熵
func (bf *BenchFile) Entropy() float64 {
	return Entropy(bf.Dist)
}
