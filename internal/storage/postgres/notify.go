package postgres

import "context"

// Publish sends payload on channel with pg_notify. Listeners receive it once
// the surrounding transaction, if any, commits.
func (s *Store) Publish(ctx context.Context, channel string, payload []byte) error {
	_, err := s.pool.Exec(ctx, `select pg_notify($1, $2)`, channel, string(payload))
	return err
}
