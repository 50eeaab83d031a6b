package db

import "context"

// ToggleMembership flips a row's presence in an edge table. existsSQL must
// return a single boolean (SELECT EXISTS...), insertSQL and deleteSQL must
// accept the same two arguments. Returns true when the edge was added.
//
// Follow and like share this shape; keeping one helper stops the two call
// sites from drifting apart.
func ToggleMembership(ctx context.Context, q Querier, existsSQL, insertSQL, deleteSQL string, a, b string) (bool, error) {
	var exists bool
	if err := q.QueryRow(ctx, existsSQL, a, b).Scan(&exists); err != nil {
		return false, err
	}

	if exists {
		if _, err := q.Exec(ctx, deleteSQL, a, b); err != nil {
			return false, err
		}
		return false, nil
	}

	if _, err := q.Exec(ctx, insertSQL, a, b); err != nil {
		return false, err
	}
	return true, nil
}
