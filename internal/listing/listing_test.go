package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	ID       uint
	Category string
	Type     string
	Name     string
	Message  string
}

func fixture() []row {
	return []row{
		{ID: 1, Category: "web", Type: "consultation", Name: "Ada", Message: "Need a landing page"},
		{ID: 2, Category: "web", Type: "service-request", Name: "Grace", Message: "E-commerce rebuild"},
		{ID: 3, Category: "mobile", Type: "service-request", Name: "Linus", Message: "iOS app for a landing flow"},
		{ID: 4, Category: "web", Type: "service-request", Name: "Ken", Message: "Landing page refresh"},
	}
}

func TestFilterIntersectsAllPredicates(t *testing.T) {
	rows := fixture()
	category := MatchEqual("web", func(r row) string { return r.Category })
	kind := MatchEqual("service-request", func(r row) string { return r.Type })
	query := MatchQuery("LANDING", func(r row) []string { return []string{r.Name, r.Message} })

	got := Filter(rows, category, kind, query)

	assert.Equal(t, []uint{4}, ids(got))
	assert.ElementsMatch(t, []uint{2, 4}, ids(Filter(rows, category, kind)))
	assert.ElementsMatch(t, []uint{1, 3, 4}, ids(Filter(rows, query)))
}

func TestFilterEmptyPredicatesMatchEverything(t *testing.T) {
	rows := fixture()
	got := Filter(rows,
		MatchEqual("", func(r row) string { return r.Category }),
		MatchEqual("all", func(r row) string { return r.Type }),
		MatchQuery("  ", func(r row) []string { return []string{r.Name} }),
	)
	assert.Equal(t, ids(rows), ids(got))
}

func TestAppendUnique(t *testing.T) {
	got := AppendUnique([]string{"Go", "React", " "}, "go", "Postgres", "React", "", "Docker")
	assert.Equal(t, []string{"Go", "React", "Postgres", "Docker"}, got)
	assert.Empty(t, AppendUnique(nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"Go", "HTMX", "SQLite"}, SplitList("Go, HTMX\nSQLite,go,"))
}

func ids(rows []row) []uint {
	out := make([]uint, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
