package postgres

import "context"

type sequenceRepository struct {
	db querier
}

// Next increments the named counter, creating it on first use. Inside a
// transaction the row stays locked until commit, so numbers are never handed out twice.
func (r *sequenceRepository) Next(ctx context.Context, name string) (int64, error) {
	const query = `INSERT INTO sequences (name, value) VALUES ($1, 1)
                   ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
                   RETURNING value`
	var value int64
	if err := r.db.QueryRow(ctx, query, name).Scan(&value); err != nil {
		return 0, mapError(err)
	}
	return value, nil
}
