package output

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/tsinghua-fib-lab/bushbuckridge-sim/entity"
	_ "modernc.org/sqlite"
)

// EventRow events表中的一行
type EventRow struct {
	ID         int64   `db:"id"`
	Time       string  `db:"time"`
	ResidentID string  `db:"resident_id"`
	Kind       string  `db:"kind"`
	State      string  `db:"state"`
	Lon        float64 `db:"lon"`
	Lat        float64 `db:"lat"`
	Detail     string  `db:"detail"`
}

// SummaryRow summary表中的一行
type SummaryRow struct {
	Step              int32   `db:"step"`
	Time              string  `db:"time"`
	NumResidents      int     `db:"residents"`
	NumMoving         int     `db:"moving"`
	NumCompletedTrips int32   `db:"completed_trips"`
	NumStranded       int32   `db:"stranded"`
	TravelDistance    float64 `db:"travel_distance"`
	Precipitation     float64 `db:"precipitation"`
	TemperatureMin    float64 `db:"temperature_min"`
	TemperatureMax    float64 `db:"temperature_max"`
}

// SQLite 运行记录数据库
// 功能：把居民、事件与每步统计写入SQLite文件，位置轨迹不写入
type SQLite struct {
	conn *sqlx.DB
}

// OpenSQLite 打开或创建数据库
func OpenSQLite(path string) (*SQLite, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// 只有一个写入者
	conn.SetMaxOpenConns(1)
	db := &SQLite{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func (db *SQLite) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS residents (
		id TEXT PRIMARY KEY,
		activity TEXT NOT NULL,
		home_lon REAL NOT NULL,
		home_lat REAL NOT NULL,
		capabilities TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		time TEXT NOT NULL,
		resident_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		state TEXT NOT NULL,
		lon REAL NOT NULL,
		lat REAL NOT NULL,
		detail TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS summary (
		step INTEGER PRIMARY KEY,
		time TEXT NOT NULL,
		residents INTEGER NOT NULL,
		moving INTEGER NOT NULL,
		completed_trips INTEGER NOT NULL,
		stranded INTEGER NOT NULL,
		travel_distance REAL NOT NULL,
		precipitation REAL NOT NULL,
		temperature_min REAL NOT NULL,
		temperature_max REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_resident ON events(resident_id);
	CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// RecordResidents 写入居民（整表替换）
func (db *SQLite) RecordResidents(residents []entity.IResident) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM residents"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO residents (id, activity, home_lon, home_lat, capabilities)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range residents {
		home := r.Home()
		if _, err := stmt.Exec(r.ID().String(), r.Kind().String(), home.Lon(), home.Lat(), r.Capabilities().String()); err != nil {
			return fmt.Errorf("insert resident %v: %w", r.ID(), err)
		}
	}
	return tx.Commit()
}

// RecordEvents 追加事件
func (db *SQLite) RecordEvents(events []entity.Event) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT INTO events (time, resident_id, kind, state, lon, lat, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.Exec(
			e.Time.Format(time.RFC3339),
			e.ResidentID.String(),
			string(e.Kind),
			e.State,
			e.Position.Lon(), e.Position.Lat(),
			e.Detail,
		); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}
	return tx.Commit()
}

// RecordPositions 位置轨迹由轨迹文件保存
func (db *SQLite) RecordPositions(int32, time.Time, []entity.Snapshot) error {
	return nil
}

// RecordSummary 写入一步的统计
func (db *SQLite) RecordSummary(s entity.Summary) error {
	_, err := db.conn.Exec(`INSERT OR REPLACE INTO summary
		(step, time, residents, moving, completed_trips, stranded, travel_distance,
		 precipitation, temperature_min, temperature_max)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Step, s.Time.Format(time.RFC3339), s.NumResidents, s.NumMoving, s.NumCompletedTrips,
		s.NumStranded, s.TravelDistance, s.Precipitation, s.TemperatureMin, s.TemperatureMax,
	)
	return err
}

// Events 按写入顺序读取某类事件，kind为空时读取全部
func (db *SQLite) Events(kind entity.EventKind) ([]EventRow, error) {
	var rows []EventRow
	var err error
	if kind == "" {
		err = db.conn.Select(&rows, "SELECT * FROM events ORDER BY id")
	} else {
		err = db.conn.Select(&rows, "SELECT * FROM events WHERE kind = ? ORDER BY id", string(kind))
	}
	return rows, err
}

// LastSummary 读取最后一步的统计
func (db *SQLite) LastSummary() (*SummaryRow, error) {
	var row SummaryRow
	if err := db.conn.Get(&row, "SELECT * FROM summary ORDER BY step DESC LIMIT 1"); err != nil {
		return nil, err
	}
	return &row, nil
}

// CountResidents residents表的行数
func (db *SQLite) CountResidents() (int, error) {
	var n int
	err := db.conn.Get(&n, "SELECT COUNT(*) FROM residents")
	return n, err
}

// Close 关闭数据库
func (db *SQLite) Close() error {
	log.Debugf("close sqlite")
	return db.conn.Close()
}
