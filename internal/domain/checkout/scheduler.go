// internal/domain/checkout/scheduler.go
package checkout

import "time"

// Scheduler runs fn once after d
type Scheduler interface {
	AfterFunc(d time.Duration, fn func())
}

// TimerScheduler schedules with time.AfterFunc
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}
