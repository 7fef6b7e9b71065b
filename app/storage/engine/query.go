package engine

import "fmt"

// DBCmd is a command identifier, each storage defines its own set
type DBCmd int

// Query keeps sqlite and postgres variants of the same statement
type Query struct {
	Sqlite   string
	Postgres string
}

// QueryMap maps commands to their queries
type QueryMap struct {
	queries map[DBCmd]Query
}

// NewQueryMap makes an empty QueryMap
func NewQueryMap() *QueryMap {
	return &QueryMap{queries: make(map[DBCmd]Query)}
}

// Add sets dialect-specific queries for cmd
func (q *QueryMap) Add(cmd DBCmd, query Query) *QueryMap {
	q.queries[cmd] = query
	return q
}

// AddSame sets one query for both dialects
func (q *QueryMap) AddSame(cmd DBCmd, query string) *QueryMap {
	return q.Add(cmd, Query{Sqlite: query, Postgres: query})
}

// Pick returns query of cmd for dbType
func (q *QueryMap) Pick(dbType Type, cmd DBCmd) (string, error) {
	query, ok := q.queries[cmd]
	if !ok {
		return "", fmt.Errorf("unsupported command type %d", cmd)
	}
	switch dbType {
	case Sqlite:
		return query.Sqlite, nil
	case Postgres:
		return query.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// Pick returns query of cmd for the engine type with placeholders adopted
func (e *SQL) Pick(q *QueryMap, cmd DBCmd) (string, error) {
	query, err := q.Pick(e.dbType, cmd)
	if err != nil {
		return "", err
	}
	return e.Adopt(query), nil
}
