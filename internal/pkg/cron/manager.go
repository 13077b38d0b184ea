package cron

import (
	"Blogstone/internal/api/config"
	"context"
	"Blogstone/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultMediaCleanupSpec = "0 */10 * * * *"

type Manager struct {
	engine          *cron.Cron
	cfg             config.JobsConfig
	mediaCleanupJob *job.MediaCleanupJob
	orphanSweepJob  *job.OrphanSweepJob
}

func NewCronManager(cfg config.JobsConfig, mediaCleanupJob *job.MediaCleanupJob, orphanSweepJob *job.OrphanSweepJob) *Manager {
	return &Manager{
		engine:          cron.New(cron.WithSeconds()),
		cfg:             cfg,
		mediaCleanupJob: mediaCleanupJob,
		orphanSweepJob:  orphanSweepJob,
	}
}

// RegisterJobs 注册定时任务，孤儿记录清理默认关闭
func (s *Manager) RegisterJobs() error {
	spec := s.cfg.MediaCleanupSpec
	if spec == "" {
		spec = defaultMediaCleanupSpec
	}
	if _, err := s.engine.AddJob(spec, s.mediaCleanupJob); err != nil {
		return err
	}

	if s.cfg.OrphanSweepEnable && s.orphanSweepJob != nil {
		if _, err := s.engine.AddJob(s.cfg.OrphanSweepSpec, s.orphanSweepJob); err != nil {
			return err
		}
	}
	return nil
}

// Entries 已注册任务数
func (s *Manager) Entries() int {
	return len(s.engine.Entries())
}

func (s *Manager) Start() {
	log.Info("cron engine started")
	s.engine.Start()
}

func (s *Manager) Stop() {
	<-s.engine.Stop().Done()
	log.Info("cron engine stopped")
}

// Run 注册并启动任务，阻塞到 ctx 结束后等待运行中的任务退出
func (s *Manager) Run(ctx context.Context) error {
	if err := s.RegisterJobs(); err != nil {
		return err
	}
	s.Start()
	<-ctx.Done()
	s.Stop()
	return nil
}
