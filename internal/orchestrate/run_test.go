package orchestrate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ptb/internal/domain"
	"ptb/internal/runner"
)

type fakeSession struct {
	files    []string
	entities map[string]*runner.Entity
	updates  chan runner.Update

	execErr  error
	closeErr error

	executed  bool
	closed    int
	lastCfg   runner.Config
	execBlock chan struct{} // when set, Execute blocks until closed
}

func (f *fakeSession) Execute(ctx context.Context) error {
	f.executed = true
	if f.execBlock != nil {
		select {
		case <-f.execBlock:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return f.execErr
}

func (f *fakeSession) Files() []string { return f.files }

func (f *fakeSession) Entity(file string) *runner.Entity { return f.entities[file] }

func (f *fakeSession) Updates() <-chan runner.Update {
	if f.updates == nil {
		return nil
	}
	return f.updates
}

func (f *fakeSession) Close() error {
	f.closed++
	return f.closeErr
}

type fakeStarter struct {
	session  *fakeSession
	err      error
	nilBoth  bool
	lastCfg  runner.Config
	startCnt int
}

func (f *fakeStarter) Start(ctx context.Context, cfg runner.Config) (runner.Session, error) {
	f.startCnt++
	f.lastCfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	if f.nilBoth || f.session == nil {
		return nil, nil
	}
	f.session.lastCfg = cfg
	return f.session, nil
}

func passFailTree() map[string]*runner.Entity {
	return map[string]*runner.Entity{
		"tests/MathTest.php": runner.NewCollection("tests/MathTest.php",
			runner.NewCollection("MathTest",
				runner.NewCase("a", domain.StatusPassed, nil),
				runner.NewCase("b", domain.StatusFailed, &domain.ErrorInfo{Message: "expected 1 to equal 2"}),
			),
		),
	}
}

func TestRun_ExecuteCollectsFlattenedResults(t *testing.T) {
	sess := &fakeSession{
		files:    []string{"tests/MathTest.php"},
		entities: passFailTree(),
	}
	starter := &fakeStarter{session: sess}
	o := NewRun(starter, "/project", time.Minute, 4)

	results, err := o.Execute(context.Background(), nil, true)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, domain.StatusPassed, results[0].Status)
	assert.Nil(t, results[0].Error)

	assert.Equal(t, "b", results[1].Name)
	assert.Equal(t, domain.StatusFailed, results[1].Status)
	require.NotNil(t, results[1].Error)
	assert.Equal(t, "expected 1 to equal 2", results[1].Error.Message)

	assert.True(t, sess.executed)
	assert.Equal(t, 1, sess.closed, "session must be closed exactly once")
	assert.False(t, starter.lastCfg.Watch)
	assert.Equal(t, "/project", starter.lastCfg.RootPath)
}

func TestRun_ExecutePassesIncludeFilter(t *testing.T) {
	sess := &fakeSession{files: nil, entities: nil}
	starter := &fakeStarter{session: sess}
	o := NewRun(starter, "/project", 0, 4)

	_, err := o.Execute(context.Background(), []string{"MathTest.php"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"MathTest.php"}, starter.lastCfg.IncludeFiles)
}

func TestRun_ExecuteEmptySessionYieldsEmptyResults(t *testing.T) {
	sess := &fakeSession{}
	o := NewRun(&fakeStarter{session: sess}, "/project", 0, 4)

	results, err := o.Execute(context.Background(), nil, true)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRun_ExecuteStartFailure(t *testing.T) {
	o := NewRun(&fakeStarter{err: errors.New("phpunit missing")}, "/project", 0, 4)

	_, err := o.Execute(context.Background(), nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunnerStart)
}

func TestRun_ExecuteNilSessionIsStartFailure(t *testing.T) {
	o := NewRun(&fakeStarter{nilBoth: true}, "/project", 0, 4)

	_, err := o.Execute(context.Background(), nil, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunnerStart)
}

func TestRun_SessionClosedOnExecutionFailure(t *testing.T) {
	sess := &fakeSession{execErr: errors.New("runner crashed")}
	o := NewRun(&fakeStarter{session: sess}, "/project", 0, 4)

	_, err := o.Execute(context.Background(), nil, true)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRunnerStart)
	assert.Equal(t, 1, sess.closed)
}

func TestRun_CloseFailureDoesNotOverrideSuccess(t *testing.T) {
	sess := &fakeSession{
		files:    []string{"tests/MathTest.php"},
		entities: passFailTree(),
		closeErr: errors.New("already gone"),
	}
	o := NewRun(&fakeStarter{session: sess}, "/project", 0, 4)

	results, err := o.Execute(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
