package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
)

// Frame 轨迹文件中的一行
type Frame struct {
	Step      int32             `json:"step"`
	Time      time.Time         `json:"time"`
	Residents []entity.Snapshot `json:"residents"`
}

// Trajectory 轨迹文件
// 功能：每步写入一行JSON（所有居民的位置），整体用zstd压缩，供可视化使用
type Trajectory struct {
	path string

	mu  sync.Mutex
	f   *os.File
	enc *zstd.Encoder
	w   *bufio.Writer
}

// TrajectoryPath 任务的轨迹文件路径
func TrajectoryPath(dir, job string) string {
	return filepath.Join(dir, fmt.Sprintf("%s-trajectory.jsonl.zst", job))
}

// OpenTrajectory 创建轨迹文件，已存在时覆盖
func OpenTrajectory(path string) (*Trajectory, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &Trajectory{
		path: path,
		f:    f,
		enc:  enc,
		w:    bufio.NewWriterSize(enc, 128*1024),
	}, nil
}

// Path 文件路径
func (t *Trajectory) Path() string {
	return t.path
}

func (t *Trajectory) RecordResidents([]entity.IResident) error { return nil }
func (t *Trajectory) RecordEvents([]entity.Event) error        { return nil }
func (t *Trajectory) RecordSummary(entity.Summary) error       { return nil }

// RecordPositions 写入一步的位置
func (t *Trajectory) RecordPositions(step int32, now time.Time, snapshots []entity.Snapshot) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.w == nil {
		return fmt.Errorf("trajectory %s closed", t.path)
	}
	b, err := json.Marshal(Frame{Step: step, Time: now, Residents: snapshots})
	if err != nil {
		return err
	}
	if _, err := t.w.Write(b); err != nil {
		return err
	}
	return t.w.WriteByte('\n')
}

// Close 刷新缓冲并关闭文件
func (t *Trajectory) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var err error
	if t.w != nil {
		err = t.w.Flush()
		t.w = nil
	}
	if t.enc != nil {
		if closeErr := t.enc.Close(); err == nil {
			err = closeErr
		}
		t.enc = nil
	}
	if t.f != nil {
		if closeErr := t.f.Close(); err == nil {
			err = closeErr
		}
		t.f = nil
	}
	return err
}

// ReadTrajectory 读取轨迹文件
func ReadTrajectory(path string) ([]Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return decodeFrames(dec)
}

func decodeFrames(r io.Reader) ([]Frame, error) {
	var frames []Frame
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		var frame Frame
		if err := json.Unmarshal(scanner.Bytes(), &frame); err != nil {
			return nil, fmt.Errorf("line %d: %w", len(frames)+1, err)
		}
		frames = append(frames, frame)
	}
	return frames, scanner.Err()
}
