// Package scheduler computes future publish slots honoring a daily
// quota and a preferred publish hour.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"driveflow/internal/store"
)

// SlotStore is the slice of the video repository the scheduler reads.
type SlotStore interface {
	FindLastScheduled(ctx context.Context, scope store.Scope) (*store.Video, error)
	CountScheduledOnDay(ctx context.Context, scope store.Scope, day time.Time) (int, error)
}

type Scheduler struct {
	repo SlotStore
	now  func() time.Time
}

func New(repo SlotStore) *Scheduler {
	return &Scheduler{repo: repo, now: time.Now}
}

// NextSlot returns the next publish timestamp for the scope. Slots land
// at uploadHour UTC, at most dailyQuota per calendar day, and are
// always strictly in the future. Sequential calls yield non-decreasing
// timestamps as long as each returned slot is persisted before the next
// call.
func (s *Scheduler) NextSlot(ctx context.Context, scope store.Scope, uploadHour, dailyQuota int) (time.Time, error) {
	if dailyQuota <= 0 {
		return time.Time{}, fmt.Errorf("daily quota must be positive, got %d", dailyQuota)
	}
	if uploadHour < 0 || uploadHour > 23 {
		return time.Time{}, fmt.Errorf("upload hour must be in [0,23], got %d", uploadHour)
	}

	now := s.now().UTC()

	last, err := s.repo.FindLastScheduled(ctx, scope)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return time.Time{}, fmt.Errorf("find last scheduled: %w", err)
	}

	var day time.Time
	if last != nil && last.ScheduledFor != nil {
		day = last.ScheduledFor.UTC().Truncate(24 * time.Hour)
		count, err := s.repo.CountScheduledOnDay(ctx, scope, day)
		if err != nil {
			return time.Time{}, fmt.Errorf("count scheduled: %w", err)
		}
		if count >= dailyQuota {
			day = day.AddDate(0, 0, 1)
		}
	} else {
		day = now.Truncate(24 * time.Hour)
	}

	slot := atHour(day, uploadHour)
	if !slot.After(now) {
		slot = atHour(day.AddDate(0, 0, 1), uploadHour)
	}

	return slot, nil
}

func atHour(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}
