// Package sqlxrepos implements the domain repositories on sqlx over postgres.
package sqlxrepos

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/trezcool/shule/core"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func getExec(repoExec core.DBExecutor, svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repoExec
}

func orderClauses(ordering []core.DBOrdering) []string {
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return clauses
}
