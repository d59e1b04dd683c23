package cornjob

import (
	"context"

	"inj-staker/logger"
	"inj-staker/service"
	"inj-staker/util/cron"
)

type CompoundJob struct {
	svc service.IService
}

func CronJobCompoundInit(svc service.IService, spec string) {
	if spec == "" {
		spec = "0 0 0 * * *"
	}
	c := cron.NewCron()
	c.Register("Compound job", spec, NewCompoundJob(svc).compound)
	c.Run()
	defer c.Stop()
}

func NewCompoundJob(svc service.IService) *CompoundJob {
	return &CompoundJob{svc: svc}
}

func (j *CompoundJob) compound(ctx context.Context) error {
	res, err := j.svc.CompoundRewards()
	if err != nil {
		logger.Logger.Errorf("compound rewards : %v", err)
		return err
	}
	for _, event := range res.Events {
		if event.Type == "restaked" {
			if amount, ok := event.Get("amount"); ok {
				logger.Logger.Infof("compounded rewards, restaked %s", amount)
			}
		}
	}
	return nil
}
