package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type retentionStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type AnalysesCleaner struct {
	store           retentionStore
	cron            *cron.Cron
	retentionInDays int
}

func NewAnalysesCleaner(store retentionStore, retentionInDays int) (*AnalysesCleaner, error) {

	if retentionInDays <= 0 {
		return nil, errors.New("retention in days must be greater than zero")
	}

	ac := &AnalysesCleaner{
		store:           store,
		cron:            cron.New(),
		retentionInDays: retentionInDays,
	}

	_, err := ac.cron.AddFunc("0 0 * * *", ac.cleanOldAnalyses)
	if err != nil {
		return nil, err
	}

	ac.cron.Start()
	log.Infof("analyses cleaner started, retention in days: %d", ac.retentionInDays)
	return ac, nil
}

func (ac *AnalysesCleaner) Stop() {
	ac.cron.Stop()
}

func (ac *AnalysesCleaner) cleanOldAnalyses() {
	cutoff := time.Now().Add(-time.Duration(ac.retentionInDays) * 24 * time.Hour)
	removed, err := ac.store.DeleteOlderThan(context.Background(), cutoff)
	if err != nil {
		log.Errorf("Failed to clean old analyses: %v", err)
	} else {
		log.Infof("Old analyses was cleaned at %v, removed records: %v", time.Now(), removed)
	}
}
