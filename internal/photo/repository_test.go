package photo

import (
	"regexp"
	"strings"
	"testing"
)

var (
	orderByRe = regexp.MustCompile(`ORDER BY ([^\n;]+)`)
	keysetRe  = regexp.MustCompile(`WHERE \(([^)]+)\) < \(\$1, \$2\)`)
)

func TestListQueriesShareOrdering(t *testing.T) {
	for name, q := range map[string]string{"list": listQuery, "listAfter": listAfterQuery} {
		m := orderByRe.FindStringSubmatch(q)
		if m == nil || m[1] != "upload_time DESC, photo_name DESC" {
			t.Fatalf("%s query has unexpected ordering: %q", name, q)
		}
	}
	if strings.Contains(listQuery, "WHERE") {
		t.Fatalf("first page must not filter: %q", listQuery)
	}
}

func TestCursorPredicateMatchesOrdering(t *testing.T) {
	where := keysetRe.FindStringSubmatch(listAfterQuery)
	if where == nil {
		t.Fatalf("listAfter query has no keyset predicate: %q", listAfterQuery)
	}
	order := orderByRe.FindStringSubmatch(listAfterQuery)

	var orderCols []string
	for _, term := range strings.Split(order[1], ",") {
		fields := strings.Fields(term)
		if len(fields) != 2 || fields[1] != "DESC" {
			t.Fatalf("every ordering column must be DESC for a < predicate, got %q", term)
		}
		orderCols = append(orderCols, fields[0])
	}

	var whereCols []string
	for _, col := range strings.Split(where[1], ",") {
		whereCols = append(whereCols, strings.TrimSpace(col))
	}

	if strings.Join(whereCols, ",") != strings.Join(orderCols, ",") {
		t.Fatalf("cursor compares %v but rows sort by %v", whereCols, orderCols)
	}
	// The cursor carries upload time then name, in that order.
	if whereCols[0] != "upload_time" || whereCols[1] != "photo_name" {
		t.Fatalf("cursor arguments do not line up with %v", whereCols)
	}
}
