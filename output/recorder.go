package output

import (
	"errors"
	"time"

	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/utils/config"
)

// Multi 将运行记录同时写入多个目标
type Multi []entity.IRecorder

func (m Multi) RecordResidents(residents []entity.IResident) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordResidents(residents))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordEvents(events []entity.Event) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordEvents(events))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordPositions(step int32, t time.Time, snapshots []entity.Snapshot) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordPositions(step, t, snapshots))
	}
	return errors.Join(errs...)
}

func (m Multi) RecordSummary(summary entity.Summary) error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.RecordSummary(summary))
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}

// New 根据输出配置创建运行记录
// 参数：c-输出配置，job-任务名，用于轨迹文件名
// 返回：运行记录；没有配置任何输出时返回nil
func New(c config.Output, job string) (entity.IRecorder, error) {
	var m Multi
	if c.DB != "" {
		db, err := OpenSQLite(c.DB)
		if err != nil {
			return nil, err
		}
		log.Infof("record to sqlite %s", c.DB)
		m = append(m, db)
	}
	if c.Trajectory != "" {
		t, err := OpenTrajectory(TrajectoryPath(c.Trajectory, job))
		if err != nil {
			_ = m.Close()
			return nil, err
		}
		log.Infof("record trajectory to %s", t.Path())
		m = append(m, t)
	}
	switch len(m) {
	case 0:
		return nil, nil
	case 1:
		return m[0], nil
	}
	return m, nil
}
