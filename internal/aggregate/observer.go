package aggregate

import "github.com/nvandessel/clockwalk/internal/walk"

// Observer receives notifications while a batch runs. When BatchConfig.Workers
// is greater than one, methods are called from several goroutines and
// implementations must be safe for concurrent use.
type Observer interface {
	// OnTrial is called once per completed trial.
	OnTrial(result walk.TrialResult)

	// OnProgress is called every progress interval and once at completion.
	OnProgress(done, total int)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Trial    func(walk.TrialResult)
	Progress func(done, total int)
}

// OnTrial calls f.Trial when set.
func (f ObserverFuncs) OnTrial(result walk.TrialResult) {
	if f.Trial != nil {
		f.Trial(result)
	}
}

// OnProgress calls f.Progress when set.
func (f ObserverFuncs) OnProgress(done, total int) {
	if f.Progress != nil {
		f.Progress(done, total)
	}
}

// Observers fans notifications out to each non-nil observer in order.
type Observers []Observer

// OnTrial forwards result to every observer.
func (list Observers) OnTrial(result walk.TrialResult) {
	for _, o := range list {
		if o != nil {
			o.OnTrial(result)
		}
	}
}

// OnProgress forwards the progress counts to every observer.
func (list Observers) OnProgress(done, total int) {
	for _, o := range list {
		if o != nil {
			o.OnProgress(done, total)
		}
	}
}

type nopObserver struct{}

func (nopObserver) OnTrial(walk.TrialResult) {}
func (nopObserver) OnProgress(int, int)      {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
