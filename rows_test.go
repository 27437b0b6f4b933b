package rowstream

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-row-stream/rowstream/engine"
)

// scriptedStatement plays back a fixed sequence of step results. Row results
// consume rows in order; IO results park the wake callback and fire it from
// RunOnce when wakeOnRun is set.
type scriptedStatement struct {
	script  []engine.StepResult
	rows    [][]engine.Value
	columns []string

	wakeOnRun bool

	pos      int
	rowIdx   int
	current  []engine.Value
	wake     func()
	stepN    int
	runOnceN int
}

func (s *scriptedStatement) Step(wake func()) (engine.StepResult, error) {
	s.stepN++
	if s.pos >= len(s.script) {
		return engine.StepDone, nil
	}
	res := s.script[s.pos]
	s.pos++
	switch res {
	case engine.StepRow:
		s.current = s.rows[s.rowIdx]
		s.rowIdx++
	case engine.StepIO:
		s.wake = wake
	}
	return res, nil
}

func (s *scriptedStatement) RunOnce() error {
	s.runOnceN++
	if s.wakeOnRun && s.wake != nil {
		wake := s.wake
		s.wake = nil
		wake()
	}
	return nil
}

func (s *scriptedStatement) Row() []engine.Value { return s.current }

func (s *scriptedStatement) ColumnCount() int { return len(s.columns) }

func (s *scriptedStatement) ColumnName(i int) string { return s.columns[i] }

func intRows(n int) [][]engine.Value {
	rows := make([][]engine.Value, n)
	for i := range rows {
		rows[i] = []engine.Value{engine.Integer(int64(i))}
	}
	return rows
}

func TestNextOrdering(t *testing.T) {
	stmt := &scriptedStatement{
		script:  []engine.StepResult{engine.StepRow, engine.StepRow, engine.StepRow, engine.StepDone},
		rows:    intRows(3),
		columns: []string{"n"},
	}
	rows := New(stmt)
	ctx := context.Background()

	for want := int64(0); want < 3; want++ {
		row, err := rows.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if row == nil {
			t.Fatalf("stream ended early at row %d", want)
		}
		got, err := Get[int64](row, Name("n"))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got != want {
			t.Errorf("row out of order: got %d, want %d", got, want)
		}
	}
	row, err := rows.Next(ctx)
	if err != nil || row != nil {
		t.Fatalf("after exhaustion: got (%v, %v), want (nil, nil)", row, err)
	}
	// Advancing an exhausted stream stays exhausted.
	row, err = rows.Next(ctx)
	if err != nil || row != nil {
		t.Fatalf("second advance after exhaustion: got (%v, %v), want (nil, nil)", row, err)
	}
}

func TestNextMaterializesRow(t *testing.T) {
	blob := []byte{1, 2, 3}
	stmt := &scriptedStatement{
		script: []engine.StepResult{engine.StepRow, engine.StepDone},
		rows: [][]engine.Value{{
			engine.Integer(42),
			engine.Real(1.5),
			engine.Text("abc"),
			engine.Blob(blob),
			engine.Null(),
		}},
		columns: []string{"i", "r", "t", "b", "z"},
	}
	rows := New(stmt)
	row, err := rows.Next(context.Background())
	if err != nil || row == nil {
		t.Fatalf("Next: (%v, %v)", row, err)
	}
	if row.ColumnCount() != 5 {
		t.Fatalf("ColumnCount = %d, want 5", row.ColumnCount())
	}

	// The statement has advanced past the row; the snapshot must survive,
	// even if the engine's buffer is reused.
	blob[0] = 99
	v, err := row.Value(Name("b"))
	if err != nil {
		t.Fatalf("Value(b): %v", err)
	}
	if got := v.Blob(); len(got) != 3 || got[0] != 1 {
		t.Errorf("blob not deep-copied: %v", got)
	}

	if v, _ := row.Value(Name("z")); !v.IsNull() {
		t.Errorf("z should be NULL, got %v", v)
	}
	if got, _ := Get[string](row, Name("t")); got != "abc" {
		t.Errorf("t = %q, want abc", got)
	}
}

func TestSuspendResume(t *testing.T) {
	stmt := &scriptedStatement{
		script:    []engine.StepResult{engine.StepIO, engine.StepRow, engine.StepDone},
		rows:      intRows(1),
		columns:   []string{"n"},
		wakeOnRun: true,
	}
	rows := New(stmt)
	row, err := rows.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if row == nil {
		t.Fatal("expected a row after the IO round-trip")
	}
	if stmt.runOnceN != 1 {
		t.Errorf("RunOnce called %d times, want exactly 1", stmt.runOnceN)
	}
	if stmt.stepN != 2 {
		t.Errorf("Step called %d times, want exactly 2", stmt.stepN)
	}
}

func TestBusyFailsAttempt(t *testing.T) {
	stmt := &scriptedStatement{script: []engine.StepResult{engine.StepBusy}}
	rows := New(stmt)
	_, err := rows.Next(context.Background())
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("err = %v, want ErrBusy", err)
	}
	if stmt.stepN != 1 || stmt.runOnceN != 0 {
		t.Errorf("engine touched beyond the failing step: steps=%d runOnce=%d", stmt.stepN, stmt.runOnceN)
	}
}

func TestInterruptFailsAttempt(t *testing.T) {
	stmt := &scriptedStatement{script: []engine.StepResult{engine.StepInterrupt}}
	rows := New(stmt)
	_, err := rows.Next(context.Background())
	if !errors.Is(err, ErrInterrupted) {
		t.Fatalf("err = %v, want ErrInterrupted", err)
	}
	if stmt.stepN != 1 || stmt.runOnceN != 0 {
		t.Errorf("engine touched beyond the failing step: steps=%d runOnce=%d", stmt.stepN, stmt.runOnceN)
	}
}

// The stream stays usable after a Busy attempt.
func TestNextAfterBusy(t *testing.T) {
	stmt := &scriptedStatement{
		script:  []engine.StepResult{engine.StepBusy, engine.StepRow, engine.StepDone},
		rows:    intRows(1),
		columns: []string{"n"},
	}
	rows := New(stmt)
	ctx := context.Background()
	if _, err := rows.Next(ctx); !errors.Is(err, ErrBusy) {
		t.Fatalf("first attempt: %v, want ErrBusy", err)
	}
	row, err := rows.Next(ctx)
	if err != nil || row == nil {
		t.Fatalf("second attempt: (%v, %v), want a row", row, err)
	}
}

func TestCancelDuringSuspension(t *testing.T) {
	// The wake never fires, so Next stays suspended until the context is
	// cancelled.
	stmt := &scriptedStatement{script: []engine.StepResult{engine.StepIO}}
	rows := New(stmt)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := rows.Next(ctx)
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after cancellation")
	}
	if stmt.runOnceN != 1 {
		t.Errorf("RunOnce called %d times, want 1", stmt.runOnceN)
	}
}

func TestCloseStopsStream(t *testing.T) {
	stmt := &scriptedStatement{
		script:  []engine.StepResult{engine.StepRow, engine.StepDone},
		rows:    intRows(1),
		columns: []string{"n"},
	}
	rows := New(stmt)
	clone := rows.Clone()
	if err := rows.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := clone.Next(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Next on closed clone: %v, want ErrClosed", err)
	}
	if stmt.stepN != 0 {
		t.Errorf("engine stepped %d times after Close, want 0", stmt.stepN)
	}
}

func TestClonesShareCursor(t *testing.T) {
	const n = 10
	script := make([]engine.StepResult, 0, n+1)
	for i := 0; i < n; i++ {
		script = append(script, engine.StepRow)
	}
	script = append(script, engine.StepDone)
	stmt := &scriptedStatement{script: script, rows: intRows(n), columns: []string{"n"}}

	a := New(stmt)
	b := a.Clone()
	ctx := context.Background()

	var got []int64
	for i := 0; ; i++ {
		src := a
		if i%2 == 1 {
			src = b
		}
		row, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if row == nil {
			break
		}
		v, err := Get[int64](row, Index(0))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		got = append(got, v)
	}
	if len(got) != n {
		t.Fatalf("clones saw %d rows total, want %d", len(got), n)
	}
	for i, v := range got {
		if v != int64(i) {
			t.Errorf("row %d = %d, want %d (clones must share one cursor)", i, v, i)
		}
	}
}

func TestConcurrentClones(t *testing.T) {
	const n = 200
	script := make([]engine.StepResult, 0, n+1)
	for i := 0; i < n; i++ {
		script = append(script, engine.StepRow)
	}
	script = append(script, engine.StepDone)
	stmt := &scriptedStatement{script: script, rows: intRows(n), columns: []string{"n"}}

	rows := New(stmt)
	ctx := context.Background()

	var mu sync.Mutex
	var got []int64
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		clone := rows.Clone()
		g.Go(func() error {
			for {
				row, err := clone.Next(ctx)
				if err != nil {
					return err
				}
				if row == nil {
					return nil
				}
				v, err := Get[int64](row, Index(0))
				if err != nil {
					return err
				}
				mu.Lock()
				got = append(got, v)
				mu.Unlock()
			}
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent advance: %v", err)
	}
	if len(got) != n {
		t.Fatalf("clones collectively saw %d rows, want %d", len(got), n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		if v != int64(i) {
			t.Fatalf("row %d observed %d times", v, countOf(got, v))
		}
	}
}

func countOf(xs []int64, x int64) int {
	n := 0
	for _, v := range xs {
		if v == x {
			n++
		}
	}
	return n
}

type failingStatement struct {
	scriptedStatement
	stepErr error
	runErr  error
}

func (f *failingStatement) Step(wake func()) (engine.StepResult, error) {
	res, err := f.scriptedStatement.Step(wake)
	if f.stepErr != nil {
		return res, f.stepErr
	}
	return res, err
}

func (f *failingStatement) RunOnce() error {
	f.scriptedStatement.RunOnce()
	return f.runErr
}

func TestStepErrorPropagates(t *testing.T) {
	wantErr := errors.New("corrupt page")
	stmt := &failingStatement{
		scriptedStatement: scriptedStatement{script: []engine.StepResult{engine.StepRow}, rows: intRows(1)},
		stepErr:           wantErr,
	}
	rows := New(stmt)
	if _, err := rows.Next(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}

func TestRunOnceErrorPropagates(t *testing.T) {
	wantErr := errors.New("io backend failed")
	stmt := &failingStatement{
		scriptedStatement: scriptedStatement{script: []engine.StepResult{engine.StepIO}},
		runErr:            wantErr,
	}
	rows := New(stmt)
	if _, err := rows.Next(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
}
