package memory

import (
	"github.com/m-mizutani/goerr/v2"

	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = goerr.New("not found")

type Memory struct {
	session    *sessionRepository
	screenshot *screenshotRepository
	state      *stateRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		session:    newSessionRepository(),
		screenshot: newScreenshotRepository(),
		state:      newStateRepository(),
	}
}

func (m *Memory) Session() interfaces.SessionRepository {
	return m.session
}

func (m *Memory) Screenshot() interfaces.ScreenshotRepository {
	return m.screenshot
}

func (m *Memory) State() interfaces.StateRepository {
	return m.state
}

func (m *Memory) Close() error {
	return nil
}
