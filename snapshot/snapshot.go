package snapshot

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/martian/log"
	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	. "github.com/xyths/hs/logger"
	"github.com/xyths/qlm/cmd/utils"
	"github.com/xyths/qlm/exchange"
	"github.com/xyths/qlm/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store keeps loan snapshots in mongo. A MySQL table and a JSON-lines
// file can mirror every write.
type Store struct {
	db     *mongo.Database
	gormDB *gorm.DB
	output string
}

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) WithMySQL(uri string) error {
	db, err := gorm.Open("mysql", uri)
	if err != nil {
		return err
	}
	s.gormDB = db
	return nil
}

func (s *Store) WithOutput(filename string) {
	s.output = filename
}

func (s *Store) Close() {
	if s.gormDB != nil {
		if err := s.gormDB.Close(); err != nil {
			Sugar.Errorf("error when gorm close: %s", err)
		}
	}
}

func (s *Store) Save(ctx context.Context, snap *types.LoanSnapshot) error {
	coll := s.db.Collection(exchange.CollSnapshot)
	if _, err := coll.InsertOne(ctx, snap); err != nil {
		Sugar.Errorf("insert snapshot error: %s", err)
		return err
	}
	if s.gormDB != nil {
		if !s.gormDB.HasTable(snap) {
			s.gormDB.CreateTable(snap)
		}
		s.gormDB.Create(snap)
	}
	if s.output != "" {
		s.appendOutput(snap)
	}
	return nil
}

func (s *Store) appendOutput(snap *types.LoanSnapshot) {
	f, err := os.OpenFile(s.output, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Sugar.Error(err)
		return
	}
	defer f.Close()
	b, err := json.Marshal(snap)
	if err != nil {
		Sugar.Error(err)
		return
	}
	if _, err1 := fmt.Fprintf(f, "%s\n", string(b)); err1 != nil {
		log.Errorf("write snapshot error: %s", err1)
	}
}

func (s *Store) Summary(ctx context.Context, hours int) (*types.LoanSummary, error) {
	coll := s.db.Collection(exchange.CollSnapshot)
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	cursor, err := coll.Find(ctx, bson.D{
		{Key: "time", Value: bson.D{{Key: "$gte", Value: since}}},
	})
	if err != nil {
		return nil, err
	}
	var snaps []types.LoanSnapshot
	if err = cursor.All(ctx, &snaps); err != nil {
		return nil, err
	}
	return summarize(snaps, hours), nil
}

func summarize(snaps []types.LoanSnapshot, hours int) *types.LoanSummary {
	sum := &types.LoanSummary{Hours: hours, Count: len(snaps)}
	if len(snaps) == 0 {
		return sum
	}
	sum.First = snaps[0].Time
	sum.Last = snaps[0].Time
	sum.MinLTV = snaps[0].CurLTV
	sum.MaxLTV = snaps[0].CurLTV
	latest := snaps[0]
	total := 0.0
	for _, snap := range snaps {
		if snap.Time.Before(sum.First) {
			sum.First = snap.Time
		}
		if snap.Time.After(sum.Last) {
			sum.Last = snap.Time
			latest = snap
		}
		if snap.CurLTV < sum.MinLTV {
			sum.MinLTV = snap.CurLTV
		}
		if snap.CurLTV > sum.MaxLTV {
			sum.MaxLTV = snap.CurLTV
		}
		total += snap.CurLTV
	}
	sum.AvgLTV = total / float64(len(snaps))
	sum.CollateralUsd = latest.CollateralUsd
	sum.LoanUsd = latest.LoanUsd
	return sum
}

func (s *Store) Export(ctx context.Context, start, end, csvfile string) error {
	startTime, endTime, err := utils.ParseStartEndTime(start, end)
	if err != nil {
		Sugar.Error(err)
		return err
	}
	f, err := os.Create(csvfile)
	if err != nil {
		Sugar.Error(err)
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	w := csv.NewWriter(f)
	header := []string{"time", "label", "equity", "collateralUsd", "loanUsd", "curLtv", "marginCallLtv", "liqLtv", "risk"}
	if err = w.Write(header); err != nil {
		Sugar.Errorf("error when write csv header: %s", err)
	}
	w.Flush()

	snaps, err := s.find(ctx, startTime, endTime)
	if err != nil {
		Sugar.Errorf("error when find snapshots: %s", err)
		return err
	}
	for _, snap := range snaps {
		record := []string{
			snap.Time.Format(utils.TimeLayout),
			snap.Label,
			fmt.Sprintf("%f", snap.Equity),
			fmt.Sprintf("%f", snap.CollateralUsd),
			fmt.Sprintf("%f", snap.LoanUsd),
			fmt.Sprintf("%f", snap.CurLTV),
			fmt.Sprintf("%f", snap.MarginCallLTV),
			fmt.Sprintf("%f", snap.LiqLTV),
			snap.Risk,
		}
		if err1 := w.Write(record); err1 != nil {
			Sugar.Errorf("error when write record: %s", err1)
		}
	}
	w.Flush()

	return nil
}

func (s *Store) find(ctx context.Context, start, end time.Time) (snaps []types.LoanSnapshot, err error) {
	coll := s.db.Collection(exchange.CollSnapshot)
	cursor, err := coll.Find(ctx, bson.D{
		{Key: "time", Value: bson.D{
			{Key: "$gte", Value: start},
			{Key: "$lte", Value: end},
		}},
	})
	if err != nil {
		return
	}
	err = cursor.All(ctx, &snaps)

	return
}
