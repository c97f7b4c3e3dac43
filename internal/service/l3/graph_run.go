package l3_service

import (
	"go.uber.org/zap"
)

type runState string

const (
	runStateValidating runState = "validating"
	runStateComputing  runState = "computing"
	runStateAssembled  runState = "assembled"
	runStateRejected   runState = "rejected"
)

var allowedTransitions = map[runState][]runState{
	runStateValidating: {runStateComputing, runStateRejected},
	runStateComputing:  {runStateAssembled, runStateRejected},
}

// graphRun tracks one request through validating -> computing -> assembled,
// or into rejected. assembled and rejected are terminal
type graphRun struct {
	state runState
	log   *zap.SugaredLogger
}

func newGraphRun(log *zap.SugaredLogger) *graphRun {
	return &graphRun{
		state: runStateValidating,
		log:   log,
	}
}

func (r *graphRun) transition(next runState) bool {
	for _, allowed := range allowedTransitions[r.state] {
		if allowed == next {
			r.log.Debugw("graph run state change", "from", r.state, "to", next)
			r.state = next
			return true
		}
	}
	r.log.Warnw("ignoring invalid graph run state change", "from", r.state, "to", next)
	return false
}

func (r *graphRun) State() runState {
	return r.state
}
