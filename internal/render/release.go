package render

import (
	"github.com/sirupsen/logrus"
)

type releaseStep struct {
	name    string
	release func()
}

// releaseStack records how to destroy each object as it is created.
// Unwinding runs the steps newest first, so every object goes before the
// parent it was created from.
type releaseStack struct {
	steps []releaseStep
}

func (s *releaseStack) push(name string, release func()) {
	s.steps = append(s.steps, releaseStep{name: name, release: release})
}

func (s *releaseStack) len() int {
	return len(s.steps)
}

// unwind runs every step. A panicking step is logged and the rest still
// run.
func (s *releaseStack) unwind(log logrus.FieldLogger) {
	for len(s.steps) > 0 {
		last := len(s.steps) - 1
		step := s.steps[last]
		s.steps = s.steps[:last]
		runStep(log, step)
	}
}

func runStep(log logrus.FieldLogger, step releaseStep) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("object", step.name).Errorf("release panicked: %v", r)
		}
	}()
	step.release()
	log.WithField("object", step.name).Debug("released")
}
