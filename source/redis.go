package source

import (
	"github.com/go-redis/redis"

	"github.com/go-row-stream/rowstream/engine"
)

// redisStatement steps over the keys matched by a Redis SCAN. One SCAN page
// is one unit of pending IO: when the local page runs dry the statement
// reports StepIO, and RunOnce fetches exactly one more page and fires the
// pending wake. Of the bundled sources this is the one whose consumers
// actually exercise rowstream's suspension path.
type redisStatement struct {
	client *redis.Client
	match  string
	count  int64

	cursor  uint64
	started bool
	page    []string
	current []engine.Value
	wake    func()
}

// FromRedisScan streams the keys matching the given pattern as single-column
// ("key") text rows. count is the SCAN hint for keys per page.
func FromRedisScan(client *redis.Client, match string, count int64) engine.Statement {
	return &redisStatement{client: client, match: match, count: count}
}

func (s *redisStatement) Step(wake func()) (engine.StepResult, error) {
	if len(s.page) > 0 {
		key := s.page[0]
		s.page = s.page[1:]
		s.current = []engine.Value{engine.Text(key)}
		return engine.StepRow, nil
	}
	// SCAN terminates when it hands back cursor 0; pages may be empty
	// before that.
	if s.started && s.cursor == 0 {
		return engine.StepDone, nil
	}
	s.wake = wake
	return engine.StepIO, nil
}

func (s *redisStatement) RunOnce() error {
	keys, cursor, err := s.client.Scan(s.cursor, s.match, s.count).Result()
	if err != nil {
		return err
	}
	s.page = keys
	s.cursor = cursor
	s.started = true
	if s.wake != nil {
		wake := s.wake
		s.wake = nil
		wake()
	}
	return nil
}

func (s *redisStatement) Row() []engine.Value { return s.current }

func (s *redisStatement) ColumnCount() int { return 1 }

func (s *redisStatement) ColumnName(int) string { return "key" }
