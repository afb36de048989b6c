package app

import (
	"context"
	"time"

	"github.com/milldata/milltrack/internal/domain"
	"github.com/milldata/milltrack/internal/mill"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("5 0 * * *", func() {
		a.SchedDailyProductionStats()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.gormDB.
			Where("opt_time < ? ", time.Now().
				Add(-time.Hour*24*365)).Delete(domain.AuditLog{})
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedDailyProductionStats writes the snapshot for the previous day.
func (a *Application) SchedDailyProductionStats() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	day := time.Now().Add(-24 * time.Hour)
	if _, err := mill.NewStatsService(a.gormDB).SnapshotDay(ctx, day); err != nil {
		zap.L().Error("daily stats job failed", zap.Error(err))
	}
}
